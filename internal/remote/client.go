// Package remote syncs the serialized journal with a document store over HTTP.
//
// Each document lives at /{collection}/{key} and holds the snapshot as a string plus the time it was written.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/storage"
)

// Document is the stored envelope of a snapshot.
type Document struct {
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResponseError is returned for non-2xx responses.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	httpClient       *resty.Client
	collection       string
	maxRetryAttempts uint
	clock            clock.Clock
}

func NewClient(baseURL, collection string, retryAttempts uint, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient:       client,
		collection:       collection,
		maxRetryAttempts: retryAttempts,
		clock:            clock.System{},
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

func isRetryableError(err error) bool {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= http.StatusInternalServerError || respErr.StatusCode == http.StatusTooManyRequests
	}
	// Transport errors: connection refused, timeouts, resets.
	return true
}

func (client *Client) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err != nil && (errors.Is(err, storage.ErrNotFound) || !isRetryableError(err)) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// Get fetches the document stored under key. A missing document returns storage.ErrNotFound.
func (client *Client) Get(ctx context.Context, key string) (Document, error) {
	var doc Document
	err := client.withRetry(ctx, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			SetPathParam("collection", client.collection).
			SetPathParam("key", key).
			SetResult(&Document{}).
			Get("/{collection}/{key}")
		if err != nil {
			return fmt.Errorf("httpClient.Get > %w", err)
		}
		if response.StatusCode() == http.StatusNotFound {
			return storage.ErrNotFound
		}
		if response.IsError() {
			return &ResponseError{StatusCode: response.StatusCode(), Body: response.String()}
		}
		result, ok := response.Result().(*Document)
		if !ok || result == nil {
			return fmt.Errorf("empty response body: %s", response.String())
		}
		doc = *result
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Put replaces the document stored under key.
func (client *Client) Put(ctx context.Context, key string, data []byte) error {
	body := Document{Data: string(data), UpdatedAt: client.clock.Now().UTC()}
	return client.withRetry(ctx, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			SetPathParam("collection", client.collection).
			SetPathParam("key", key).
			SetBody(body).
			Put("/{collection}/{key}")
		if err != nil {
			return fmt.Errorf("httpClient.Put > %w", err)
		}
		if response.IsError() {
			return &ResponseError{StatusCode: response.StatusCode(), Body: response.String()}
		}
		return nil
	})
}

// Read implements storage.Storage.
func (client *Client) Read(ctx context.Context, key string) ([]byte, error) {
	doc, err := client.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if doc.Data == "" {
		return nil, storage.ErrNotFound
	}
	return []byte(doc.Data), nil
}

// Write implements storage.Storage.
func (client *Client) Write(ctx context.Context, key string, data []byte) error {
	return client.Put(ctx, key, data)
}

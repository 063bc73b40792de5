package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/migration"
	"github.com/at-ishikawa/devnote/internal/persistence"
)

// Syncer pushes and pulls the whole journal under one sync key.
type Syncer struct {
	client *Client
	key    string
}

func NewSyncer(client *Client, key string) *Syncer {
	return &Syncer{client: client, key: key}
}

// Push uploads root, replacing the remote copy.
func (s *Syncer) Push(ctx context.Context, root *journal.RootState) error {
	data, err := persistence.Encode(root)
	if err != nil {
		return fmt.Errorf("persistence.Encode() > %w", err)
	}
	if err := s.client.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("client.Put() > %w", err)
	}
	return nil
}

// Pull downloads and migrates the remote copy and returns when it was pushed.
func (s *Syncer) Pull(ctx context.Context) (*journal.RootState, time.Time, error) {
	doc, err := s.client.Get(ctx, s.key)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("client.Get() > %w", err)
	}
	root, err := persistence.Decode([]byte(doc.Data))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("persistence.Decode() > %w", err)
	}
	return migration.Migrate(root), doc.UpdatedAt, nil
}

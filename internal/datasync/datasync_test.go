package datasync

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_storage "github.com/at-ishikawa/devnote/internal/mocks/storage"
	"github.com/at-ishikawa/devnote/internal/storage"
)

const (
	validSnapshot = `{"schemaVersion":2,"projects":[],"logs":[],"snippets":[]}`
	oldSnapshot   = `{"schemaVersion":2,"projects":[{"id":"p1","name":"old"}],"logs":[],"snippets":[]}`
)

func TestImporter_ImportSlots(t *testing.T) {
	tests := []struct {
		name        string
		source      map[string]string
		destination map[string]string
		opts        ImportOptions
		want        *ImportResult
		wantDest    map[string]string
		wantOutput  []string
	}{
		{
			name:        "new slots are copied",
			source:      map[string]string{"primary": validSnapshot, "backup": validSnapshot},
			destination: map[string]string{},
			want:        &ImportResult{SlotsNew: 2},
			wantDest:    map[string]string{"primary": validSnapshot, "backup": validSnapshot},
			wantOutput:  []string{"[NEW]  primary", "[NEW]  backup"},
		},
		{
			name:        "existing slot is skipped",
			source:      map[string]string{"primary": validSnapshot},
			destination: map[string]string{"primary": oldSnapshot},
			want:        &ImportResult{SlotsSkipped: 1, SlotsMissing: 1},
			wantDest:    map[string]string{"primary": oldSnapshot},
			wantOutput:  []string{"[SKIP]  primary", "[MISSING]  backup"},
		},
		{
			name:        "existing slot is updated",
			source:      map[string]string{"primary": validSnapshot},
			destination: map[string]string{"primary": oldSnapshot},
			opts:        ImportOptions{UpdateExisting: true},
			want:        &ImportResult{SlotsUpdated: 1, SlotsMissing: 1},
			wantDest:    map[string]string{"primary": validSnapshot},
		},
		{
			name:        "dry run writes nothing",
			source:      map[string]string{"primary": validSnapshot, "backup": validSnapshot},
			destination: map[string]string{},
			opts:        ImportOptions{DryRun: true},
			want:        &ImportResult{SlotsNew: 2},
			wantDest:    map[string]string{},
		},
		{
			name:        "corrupt source is skipped",
			source:      map[string]string{"primary": "{not json", "backup": validSnapshot},
			destination: map[string]string{},
			want:        &ImportResult{SlotsCorrupt: 1, SlotsNew: 1},
			wantDest:    map[string]string{"backup": validSnapshot},
			wantOutput:  []string{"[CORRUPT]  primary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			source := storage.NewFileStorage(t.TempDir())
			for key, data := range tt.source {
				require.NoError(t, source.Write(ctx, key, []byte(data)))
			}
			destDir := t.TempDir()
			destination := storage.NewFileStorage(destDir)
			for key, data := range tt.destination {
				require.NoError(t, destination.Write(ctx, key, []byte(data)))
			}

			var out bytes.Buffer
			got, err := NewImporter(source, destination, &out).ImportSlots(ctx, []string{"primary", "backup"}, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			for _, key := range []string{"primary", "backup"} {
				data, err := destination.Read(ctx, key)
				want, ok := tt.wantDest[key]
				if !ok {
					assert.ErrorIs(t, err, storage.ErrNotFound, key)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, want, string(data))
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestImporter_ImportSlots_DestinationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mock_storage.NewMockStorage(ctrl)
	destination := mock_storage.NewMockStorage(ctrl)
	writeErr := errors.New("disk full")

	source.EXPECT().Read(gomock.Any(), "primary").Return([]byte(validSnapshot), nil)
	destination.EXPECT().Read(gomock.Any(), "primary").Return(nil, storage.ErrNotFound)
	destination.EXPECT().Write(gomock.Any(), "primary", []byte(validSnapshot)).Return(writeErr)

	_, err := NewImporter(source, destination, &bytes.Buffer{}).ImportSlots(context.Background(), []string{"primary"}, ImportOptions{})
	assert.ErrorIs(t, err, writeErr)
}

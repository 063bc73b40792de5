package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_ReadWrite(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileStorage(dir)

	_, err := s.Read(ctx, "devnote_data")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "devnote_data", []byte(`{"schemaVersion":2}`)))
	got, err := s.Read(ctx, "devnote_data")
	require.NoError(t, err)
	assert.Equal(t, `{"schemaVersion":2}`, string(got))

	require.NoError(t, s.Write(ctx, "devnote_data", []byte(`{"schemaVersion":3}`)))
	got, err = s.Read(ctx, "devnote_data")
	require.NoError(t, err)
	assert.Equal(t, `{"schemaVersion":3}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "devnote_data.json", entries[0].Name())
}

func TestFileStorage_Read(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		key     string
		want    string
		wantErr error
		anyErr  bool
	}{
		{
			name:    "missing file",
			setup:   func(t *testing.T, dir string) {},
			key:     "devnote_data",
			wantErr: ErrNotFound,
		},
		{
			name: "empty file is treated as missing",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "devnote_data.json"), nil, 0644))
			},
			key:     "devnote_data",
			wantErr: ErrNotFound,
		},
		{
			name: "corrupt content is returned as is",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "devnote_data.json"), []byte("{not json"), 0644))
			},
			key:  "devnote_data",
			want: "{not json",
		},
		{
			name:   "key with path separator",
			setup:  func(t *testing.T, dir string) {},
			key:    "../escape",
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			got, err := NewFileStorage(dir).Read(context.Background(), tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.anyErr {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFileStorage_WriteInvalidKey(t *testing.T) {
	err := NewFileStorage(t.TempDir()).Write(context.Background(), "", []byte("{}"))
	assert.Error(t, err)
}

package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportMarkdown = "# Journal Report\n\n| Period | Created |\n|---|---|\n| 2025-06 | 3 |\n"

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		fileName   string
		wantErrMsg string
	}{
		{
			name:       "invalid extension",
			content:    reportMarkdown,
			fileName:   "report.txt",
			wantErrMsg: "output file must have .pdf extension",
		},
		{
			name:       "empty content",
			fileName:   "report.pdf",
			wantErrMsg: "nothing to render",
		},
		{
			name:     "report is rendered",
			content:  reportMarkdown,
			fileName: "report.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfPath := filepath.Join(t.TempDir(), tt.fileName)
			got, err := Render([]byte(tt.content), pdfPath)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			info, err := os.Stat(got)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

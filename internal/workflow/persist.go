// Package workflow persists fetched workflow definitions to disk.
package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/binalyze/n8n-workflow-tool/internal/errors"
	"github.com/binalyze/n8n-workflow-tool/internal/fsutil"
)

// Save writes a workflow document to path with 2-space indentation,
// creating missing parent directories. The document is reformatted with
// json.Indent so field order and non-ASCII characters are preserved
// exactly as the server sent them.
func Save(path string, doc json.RawMessage) error {
	if err := fsutil.CreateDirIfNotExists(fsutil.GetDir(path)); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return fmt.Errorf("%w: workflow document is not valid JSON: %s", errors.ErrInvalidArgument, err)
	}
	buf.WriteByte('\n')

	if err := fsutil.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %s: %s", errors.ErrFileWriteError, path, err)
	}
	return nil
}

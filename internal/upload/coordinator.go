package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Extensions the ingestion endpoint accepts, matched case-insensitively.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Transmitter sends one file to the ingestion endpoint.
type Transmitter interface {
	Upload(ctx context.Context, filename string, content io.Reader) error
}

// Refresher re-syncs the document list after a batch.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier records the batch summary in the conversation.
type Notifier interface {
	Notice(text string)
}

// FileResult is the outcome for a single file in a batch.
type FileResult struct {
	Path     string
	Rejected bool // failed type validation, never transmitted
	Err      error
}

// Result is the outcome of one batch.
type Result struct {
	Attempted int
	Files     []FileResult
}

// Coordinator transmits batches of files one at a time, isolating failures
// per file. One file being rejected or failing to transmit never stops the
// rest of the batch.
type Coordinator struct {
	transmitter Transmitter
	refresher   Refresher
	notifier    Notifier
	logger      *zap.Logger
}

func NewCoordinator(transmitter Transmitter, refresher Refresher, notifier Notifier, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{transmitter: transmitter, refresher: refresher, notifier: notifier, logger: logger}
}

// Upload processes the batch sequentially, then triggers exactly one document
// refresh and one summary notice. The summary cites the attempted count, not
// the success count; per-file outcomes carry the detail.
func (c *Coordinator) Upload(ctx context.Context, paths []string) Result {
	res := Result{Attempted: len(paths)}
	for _, path := range paths {
		res.Files = append(res.Files, c.uploadOne(ctx, path))
	}
	if res.Attempted > 0 {
		if err := c.refresher.Refresh(ctx); err != nil {
			c.logger.Warn("document refresh after upload failed", zap.Error(err))
		}
		c.notifier.Notice(fmt.Sprintf("Processed %d document(s). You can now ask questions about them.", res.Attempted))
	}
	return res
}

func (c *Coordinator) uploadOne(ctx context.Context, path string) FileResult {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		c.logger.Warn("file type rejected", zap.String("file", name))
		return FileResult{
			Path:     path,
			Rejected: true,
			Err:      fmt.Errorf("%s: unsupported file type, allowed: pdf, doc, docx, txt", name),
		}
	}
	f, err := os.Open(path)
	if err != nil {
		c.logger.Warn("file unreadable", zap.String("file", path), zap.Error(err))
		return FileResult{Path: path, Err: err}
	}
	defer f.Close()
	if err := c.transmitter.Upload(ctx, name, f); err != nil {
		c.logger.Warn("upload failed", zap.String("file", name), zap.Error(err))
		return FileResult{Path: path, Err: fmt.Errorf("%s: %w", name, err)}
	}
	c.logger.Info("file uploaded", zap.String("file", name))
	return FileResult{Path: path}
}

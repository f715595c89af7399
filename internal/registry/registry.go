package registry

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// Client keeps a read-only mirror of the documents the backend knows about.
// The mirror is replaced wholesale on refresh; a failed refresh keeps the
// previous list and records the error for diagnostics only.
type Client struct {
	lister domain.DocumentLister
	logger *zap.Logger

	mu        sync.RWMutex
	documents []domain.Document
	lastErr   error
}

func NewClient(lister domain.DocumentLister, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{lister: lister, logger: logger}
}

// Refresh fetches the full document list and swaps it in.
func (c *Client) Refresh(ctx context.Context) error {
	docs, err := c.lister.ListDocuments(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err
		c.logger.Warn("document list refresh failed", zap.Error(err))
		return err
	}
	c.documents = docs
	c.lastErr = nil
	return nil
}

// Documents returns the last successfully fetched list.
func (c *Client) Documents() []domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Document, len(c.documents))
	copy(out, c.documents)
	return out
}

// LastError reports the error from the most recent refresh, if it failed.
func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

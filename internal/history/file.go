package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// schemaVersion tags the persisted blob so a future format change can migrate
// instead of silently dropping history.
const schemaVersion = 1

type envelope struct {
	Version  int              `json:"version"`
	Messages []domain.Message `json:"messages"`
}

// FileStore mirrors the conversation log into a single JSON file.
// Persistence is best-effort: Load maps every failure to an empty log and
// Save errors are reported but expected to be ignored by the caller.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted log. A missing file, unreadable file, parse
// failure or unknown schema version all yield an empty log, never an error.
func (s *FileStore) Load() []domain.Message {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("history unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("history corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return nil
	}
	if env.Version != schemaVersion {
		s.logger.Warn("history schema mismatch, starting empty",
			zap.Int("got", env.Version), zap.Int("want", schemaVersion))
		return nil
	}
	return env.Messages
}

// Save overwrites the stored value with the full log.
func (s *FileStore) Save(messages []domain.Message) error {
	if messages == nil {
		messages = []domain.Message{}
	}
	data, err := json.Marshal(envelope{Version: schemaVersion, Messages: messages})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

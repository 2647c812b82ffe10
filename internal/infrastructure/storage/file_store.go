package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
)

// FileStore persists the league snapshot as a single JSON document on local
// disk. It is the only durable state the service owns; there is no schema
// version field and no migration beyond whole-document replace.
type FileStore struct {
	path   string
	logger *logging.Logger
}

func NewFileStore(path string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Default()
	}

	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load returns the stored snapshot. A missing document and an unreadable or
// corrupt one are both treated as "absent": the embedded default dataset is
// returned and the condition is never fatal.
func (s *FileStore) Load(ctx context.Context) (league.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "league document unreadable, falling back to defaults", "path", s.path, "error", err)
		}
		return league.DefaultSnapshot(), nil
	}

	var snapshot league.Snapshot
	if err := sonic.Unmarshal(raw, &snapshot); err != nil {
		s.logger.WarnContext(ctx, "league document corrupt, falling back to defaults", "path", s.path, "error", err)
		return league.DefaultSnapshot(), nil
	}
	if snapshot.Matches == nil {
		snapshot.Matches = []league.Match{}
	}
	if snapshot.Players == nil {
		snapshot.Players = []league.Player{}
	}

	return snapshot, nil
}

// Save overwrites the stored document unconditionally, last writer wins.
// The write goes through a temp file and rename so readers never observe a
// half-written document.
func (s *FileStore) Save(ctx context.Context, snapshot league.Snapshot) error {
	raw, err := sonic.ConfigDefault.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode league document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace league document: %w", err)
	}

	s.logger.DebugContext(ctx, "league document saved", "path", s.path, "matches", len(snapshot.Matches))

	return nil
}

// Clear removes the stored document entirely so the next Load starts from
// the embedded defaults. A missing document is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove league document: %w", err)
	}

	s.logger.InfoContext(ctx, "league document cleared", "path", s.path)

	return nil
}

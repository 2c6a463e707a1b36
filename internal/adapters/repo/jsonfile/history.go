package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	historyDirKey   = "storage.history_dir"
	historyDirName  = "history"
	configDirName   = ".umatrack"
	historyFileMode = 0o600
	historyDirMode  = 0o700
	tempFilePattern = ".history-*.json.tmp"
)

// Store persists one JSON history document per resource kind. Documents
// are sanitized on load, so a hand-edited or partially written file
// degrades to whatever entries survive instead of failing; history is
// reconstructible and never worth an error on read.
type Store struct {
	dir string
	mu  *sync.RWMutex
	log *logrus.Logger
}

var (
	lockRegistryMu sync.Mutex
	dirLockMap     = map[string]*sync.RWMutex{}
)

var _ ports.HistoryRepository = (*Store)(nil)

func NewStore(cfg *viper.Viper, log *logrus.Logger) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(historyDirKey, filepath.Join(homeDir, configDirName, historyDirName))

	dir := cfg.GetString(historyDirKey)
	if dir == "" {
		return nil, errors.New("history dir is empty")
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve history dir: %w", err)
	}
	dir = filepath.Clean(dir)

	return &Store{dir: dir, mu: lockForDir(dir), log: log}, nil
}

func (s *Store) Get(ctx context.Context, kind domain.Kind) (domain.HistorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistorySnapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.pathFor(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.HistorySnapshot{}, nil
		}
		return domain.HistorySnapshot{}, fmt.Errorf("read history file: %w", err)
	}

	var raw domain.RawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.WithFields(logrus.Fields{"kind": kind, "path": s.pathFor(kind)}).
			WithError(err).Warn("history document unreadable, starting empty")
		return domain.HistorySnapshot{}, nil
	}

	return domain.SanitizeSnapshot(raw), nil
}

func (s *Store) Save(ctx context.Context, kind domain.Kind, snapshot domain.HistorySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, historyDirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history document: %w", err)
	}

	tempFile, err := os.CreateTemp(s.dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}

	if err := tempFile.Chmod(historyFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp history file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tempName, s.pathFor(kind)); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	cleanup = false
	return nil
}

func (s *Store) pathFor(kind domain.Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

func lockForDir(dir string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := dirLockMap[dir]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	dirLockMap[dir] = mu
	return mu
}

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kerberos-io/translator/src/models"
)

// FileStore keeps all records in a single json file, keyed by location.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string]models.Settings, error) {
	records := make(map[string]models.Settings)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return records, nil
}

// Put replaces the record of the location. The file is written next to the
// target and renamed, so readers never see a partial record.
func (s *FileStore) Put(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := s.read()
	if err != nil {
		return err
	}
	records[settings.Location] = settings

	res, err := json.MarshalIndent(records, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, res, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, location string) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return models.Settings{}, err
	}
	record, ok := records[location]
	if !ok {
		return models.Settings{}, ErrNotFound
	}
	return record, nil
}

func (s *FileStore) Close() error {
	return nil
}

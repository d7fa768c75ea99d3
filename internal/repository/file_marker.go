package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type markerDoc struct {
	LastWeeklyReset *time.Time `yaml:"lastWeeklyReset,omitempty"`
}

// FileMarkerStore keeps the reset marker in a small YAML state file.
type FileMarkerStore struct {
	path string
}

func NewFileMarkerStore(path string) *FileMarkerStore {
	return &FileMarkerStore{path: path}
}

func (s *FileMarkerStore) LastReset(_ context.Context) (*time.Time, error) {
	doc, err := s.load()
	if err != nil {
		return nil, storeErr("read reset marker", err)
	}
	return doc.LastWeeklyReset, nil
}

func (s *FileMarkerStore) SaveLastReset(_ context.Context, at time.Time) error {
	doc, err := s.load()
	if err != nil {
		// A corrupt state file is replaced rather than blocking resets forever.
		doc = markerDoc{}
	}
	doc.LastWeeklyReset = &at

	payload, err := yaml.Marshal(doc)
	if err != nil {
		return storeErr("save reset marker", fmt.Errorf("encode marker: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return storeErr("save reset marker", fmt.Errorf("create state dir: %w", err))
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return storeErr("save reset marker", fmt.Errorf("write marker: %w", err))
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return storeErr("save reset marker", fmt.Errorf("replace marker: %w", err))
	}
	return nil
}

func (s *FileMarkerStore) load() (markerDoc, error) {
	var doc markerDoc
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read marker: %w", err)
	}
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return doc, fmt.Errorf("decode marker: %w", err)
	}
	return doc, nil
}

var _ MarkerStore = (*FileMarkerStore)(nil)

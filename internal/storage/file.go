package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	errStorageFileIsDir = errors.New("storage file is dir")
)

type fileStorage struct {
	path string
	log  *zap.Logger

	mu   sync.RWMutex
	data map[string]string
}

// NewFile opens a JSON document on disk. Every mutation rewrites the whole
// document through a temp file and a rename.
func NewFile(path string, log *zap.Logger) (Storage, error) {
	if path == "" {
		return nil, errors.New("file storage requires a path")
	}

	s := &fileStorage{
		path: path,
		log:  log,
		data: make(map[string]string),
	}

	err := s.readfile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// only log, the storage starts empty and the next write replaces the
		// unreadable file
		s.log.Warn("failed reading storage file", zap.String("path", path), zap.Error(err))
		s.data = make(map[string]string)
	}

	return s, nil
}

func (s *fileStorage) readfile() error {
	finfo, err := os.Stat(s.path)
	if err != nil {
		return err
	}

	if finfo.IsDir() {
		return errStorageFileIsDir
	}

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(&s.data)
}

func (s *fileStorage) writefile(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *fileStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *fileStorage) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.data)+len(values))
	for k, v := range s.data {
		next[k] = v
	}
	for k, v := range values {
		next[k] = v
	}

	if err := s.writefile(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *fileStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.data))
	changed := false
	for k, v := range s.data {
		next[k] = v
	}
	for _, k := range keys {
		if _, ok := next[k]; ok {
			delete(next, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.writefile(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *fileStorage) Close(context.Context) error {
	return nil
}

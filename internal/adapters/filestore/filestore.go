// Package filestore persists sessions and small documents as JSON files,
// the durable scope for a single workstation.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

var (
	_ ports.SessionStorage = (*SessionStorage)(nil)
	_ ports.KeyValueStore  = (*KeyValueStore)(nil)
)

const (
	dirPerm  = 0o700
	filePerm = 0o600

	sessionFile = "session.json"
)

// SessionStorage stores one session in <dir>/session.json.
type SessionStorage struct {
	path string
}

// NewSessionStorage returns a session scope rooted at dir. The directory is created on first save.
func NewSessionStorage(dir string) *SessionStorage {
	return &SessionStorage{path: filepath.Join(dir, sessionFile)}
}

// Path returns the session file location.
func (s *SessionStorage) Path() string { return s.path }

func (s *SessionStorage) Load(_ context.Context) (domainauth.PersistedSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domainauth.PersistedSession{}, ports.ErrNoSession
	}
	if err != nil {
		return domainauth.PersistedSession{}, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return domainauth.PersistedSession{}, ports.ErrNoSession
	}

	var sess domainauth.PersistedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.PersistedSession{}, fmt.Errorf("%w: %w", ports.ErrCorruptSession, err)
	}
	return sess, nil
}

func (s *SessionStorage) Save(_ context.Context, sess domainauth.PersistedSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *SessionStorage) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// KeyValueStore stores each key as <dir>/<key>.json.
type KeyValueStore struct {
	dir string
}

// NewKeyValueStore returns a store rooted at dir.
func NewKeyValueStore(dir string) *KeyValueStore {
	return &KeyValueStore{dir: dir}
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func (s *KeyValueStore) keyPath(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *KeyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *KeyValueStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	return writeFileAtomic(p, value)
}

func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// writeFileAtomic replaces path via a temp file and rename so readers never see a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("write temp file: %w", err), tmp.Close(), os.Remove(tmpName))
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return errors.Join(fmt.Errorf("chmod temp file: %w", err), tmp.Close(), os.Remove(tmpName))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("close temp file: %w", err), os.Remove(tmpName))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Join(fmt.Errorf("rename temp file: %w", err), os.Remove(tmpName))
	}
	return nil
}

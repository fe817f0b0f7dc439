package client

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrNoSession is returned by a SessionStore holding no session.
var ErrNoSession = errors.New("no stored session")

// ErrCorruptSession is returned when a stored session cannot be decrypted.
var ErrCorruptSession = errors.New("stored session is corrupt or was sealed with another key")

const nonceSize = 24

// Session is the persisted login state: the bearer token and the identity it
// was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionStore persists a Session between runs.
type SessionStore interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Session{}, ErrNoSession
	}
	return *m.session, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// FileStore keeps the session in a file sealed with NaCl secretbox. The file
// is written with mode 0600.
type FileStore struct {
	path string
	key  [32]byte
}

// NewFileStore returns a FileStore at path sealed with key.
func NewFileStore(path string, key [32]byte) *FileStore {
	return &FileStore{path: path, key: key}
}

func (f *FileStore) Load(_ context.Context) (Session, error) {
	sealed, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return Session{}, ErrCorruptSession
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &f.key)
	if !ok {
		return Session{}, ErrCorruptSession
	}

	var s Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return Session{}, ErrCorruptSession
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s Session) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &f.key)

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Package memory provides a content-addressed in-process store for tests and
// local development. Like the real store, byte-identical adds converge on the
// same reference.
package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
)

type Store struct {
	mu     sync.RWMutex
	blocks map[string][]byte

	addCalls int
	failAdd  error
	failGet  error
}

func New() *Store {
	return &Store{blocks: make(map[string][]byte)}
}

func (s *Store) Add(_ context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	if s.failAdd != nil {
		return "", s.failAdd
	}

	sum := sha256.Sum256(data)
	ref := hex.EncodeToString(sum[:])
	s.blocks[ref] = data
	return ref, nil
}

func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	data, ok := s.blocks[ref]
	if !ok {
		return nil, fmt.Errorf("content store: no block for %s", ref)
	}
	return append([]byte(nil), data...), nil
}

// FailAdd makes subsequent Add calls return err. Pass nil to restore.
func (s *Store) FailAdd(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAdd = err
}

// FailGet makes subsequent Get calls return err. Pass nil to restore.
func (s *Store) FailGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = err
}

// AddCalls reports how many Add attempts were made, including failed ones.
func (s *Store) AddCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addCalls
}

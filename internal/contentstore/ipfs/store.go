// Package ipfs backs the content store with a Kubo node's HTTP API.
package ipfs

import (
	"context"
	"fmt"
	"io"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// Store adds and cats blocks through the IPFS API endpoint. All requests are
// bounded by the configured timeout.
type Store struct {
	sh *shell.Shell
}

// New connects to the API endpoint (host:port or multiaddr).
func New(apiAddr string, timeout time.Duration) *Store {
	sh := shell.NewShell(apiAddr)
	sh.SetTimeout(timeout)
	return &Store{sh: sh}
}

func (s *Store) Add(_ context.Context, r io.Reader) (string, error) {
	ref, err := s.sh.Add(r, shell.Pin(true))
	if err != nil {
		return "", fmt.Errorf("ipfs add: %w", err)
	}
	return ref, nil
}

func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	rc, err := s.sh.Cat(ref)
	if err != nil {
		return nil, fmt.Errorf("ipfs cat %s: %w", ref, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ipfs cat %s: %w", ref, err)
	}
	return data, nil
}

// Package memory provides an in-process ledger for tests and local
// development. It speaks the same chaincode function vocabulary and JSON
// shapes as the real network.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"certchain/internal/ledger"
)

type Ledger struct {
	mu     sync.RWMutex
	assets map[string]ledger.Asset

	// call counters for tests asserting orchestration order
	queryCalls  int
	invokeCalls int
}

func New() *Ledger {
	return &Ledger{assets: make(map[string]ledger.Asset)}
}

func (l *Ledger) Query(_ context.Context, fn string, args ...string) ([]byte, error) {
	l.mu.Lock()
	l.queryCalls++
	l.mu.Unlock()

	l.mu.RLock()
	defer l.mu.RUnlock()

	switch fn {
	case ledger.FnReadAsset:
		if len(args) != 1 {
			return nil, fmt.Errorf("memory ledger: %s expects 1 arg, got %d", fn, len(args))
		}
		asset, ok := l.assets[args[0]]
		if !ok {
			return nil, ledger.ErrNotFound
		}
		return json.Marshal(asset)
	case ledger.FnGetAllAssets:
		all := make([]ledger.Asset, 0, len(l.assets))
		for _, a := range l.assets {
			all = append(all, a)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		return json.Marshal(all)
	default:
		return nil, fmt.Errorf("memory ledger: unknown query function %q", fn)
	}
}

func (l *Ledger) Invoke(_ context.Context, fn string, args ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invokeCalls++

	switch fn {
	case ledger.FnCreateAsset, ledger.FnUpdateAsset:
		if len(args) != 5 {
			return fmt.Errorf("memory ledger: %s expects 5 args, got %d", fn, len(args))
		}
		l.assets[args[0]] = ledger.Asset{
			ID:             args[0],
			Color:          args[1],
			Size:           atoiOr(args[2], 0),
			Owner:          args[3],
			AppraisedValue: atoiOr(args[4], 0),
		}
		return nil
	default:
		return fmt.Errorf("memory ledger: unknown invoke function %q", fn)
	}
}

// Asset returns the stored asset for direct assertions in tests.
func (l *Ledger) Asset(key string) (ledger.Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[key]
	return a, ok
}

// InvokeCalls reports how many transactions have been submitted.
func (l *Ledger) InvokeCalls() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.invokeCalls
}

func atoiOr(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}

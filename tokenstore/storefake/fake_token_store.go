// Package storefake provides an in-memory session.TokenStore for tests.
package storefake

import (
	"sync"

	"github.com/investai/investai-go/session"
)

var _ session.TokenStore = (*FakeTokenStore)(nil)

// FakeTokenStore keeps the pair in memory and counts operations. SaveErr,
// LoadErr and ClearErr force the corresponding call to fail.
type FakeTokenStore struct {
	lock sync.Mutex

	pair   session.TokenPair
	stored bool

	SaveErr  error
	LoadErr  error
	ClearErr error

	saveCalls  int
	clearCalls int
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

func (f *FakeTokenStore) Save(pair session.TokenPair) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.saveCalls++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.pair = pair
	f.stored = true
	return nil
}

func (f *FakeTokenStore) Load() (session.TokenPair, bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.LoadErr != nil {
		return session.TokenPair{}, false, f.LoadErr
	}
	return f.pair, f.stored, nil
}

func (f *FakeTokenStore) Clear() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.clearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.pair = session.TokenPair{}
	f.stored = false
	return nil
}

// Seed installs a pair as if it had been saved previously.
func (f *FakeTokenStore) Seed(pair session.TokenPair) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pair = pair
	f.stored = true
}

// Stored returns the currently held pair and whether one is present.
func (f *FakeTokenStore) Stored() (session.TokenPair, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.pair, f.stored
}

func (f *FakeTokenStore) SaveCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.saveCalls
}

func (f *FakeTokenStore) ClearCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.clearCalls
}

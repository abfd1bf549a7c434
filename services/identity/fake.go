package identitysvc

import (
	"context"
	"sync"

	"github.com/osisproject0-hub/smaktal/core"
)

// FakeVerifier accepts the tokens it was given. Used in development and tests.
type FakeVerifier struct {
	mu     sync.RWMutex
	tokens map[string]core.Principal
}

var _ core.IdentityVerifier = (*FakeVerifier)(nil)

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{tokens: make(map[string]core.Principal)}
}

// Register makes idToken verify as p.
func (v *FakeVerifier) Register(idToken string, p core.Principal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[idToken] = p
}

func (v *FakeVerifier) Verify(_ context.Context, idToken string) (core.Principal, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.tokens[idToken]
	if !ok {
		return core.Principal{}, core.ErrInvalidIDToken
	}
	return p, nil
}

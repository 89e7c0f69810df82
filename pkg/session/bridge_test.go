package session

import (
	"sync/atomic"
	"testing"
	"time"

	"projectboard/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBridgePurgesAndNavigatesOnSignOut(t *testing.T) {
	storage := NewStorage("", zap.NewNop())
	storage.Set("sb-auth-token", "token")

	var navigated atomic.Bool
	bridge := NewBridge(storage, func() { navigated.Store(true) }, zap.NewNop())

	events := make(chan identity.AuthEvent, 1)
	bridge.Attach(events)
	events <- identity.AuthEvent{Type: identity.EventSignedOut}

	require.Eventually(t, func() bool { return navigated.Load() }, time.Second, 10*time.Millisecond)
	_, ok := storage.Get("sb-auth-token")
	assert.False(t, ok)
}

func TestBridgePurgesOnTokenRefreshWithoutNavigation(t *testing.T) {
	storage := NewStorage("", zap.NewNop())
	storage.Set("sb-auth-token", "token")

	var navigated atomic.Bool
	bridge := NewBridge(storage, func() { navigated.Store(true) }, zap.NewNop())

	events := make(chan identity.AuthEvent, 1)
	bridge.Attach(events)
	events <- identity.AuthEvent{Type: identity.EventTokenRefreshed}

	require.Eventually(t, func() bool {
		_, ok := storage.Get("sb-auth-token")
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.False(t, navigated.Load())
}

func TestBridgeIgnoresSignIn(t *testing.T) {
	storage := NewStorage("", zap.NewNop())
	storage.Set("sb-auth-token", "token")

	bridge := NewBridge(storage, nil, zap.NewNop())

	events := make(chan identity.AuthEvent, 1)
	bridge.Attach(events)
	events <- identity.AuthEvent{Type: identity.EventSignedIn}
	close(events)

	time.Sleep(50 * time.Millisecond)
	_, ok := storage.Get("sb-auth-token")
	assert.True(t, ok)
}

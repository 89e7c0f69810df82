package session

import (
	"projectboard/pkg/identity"

	"go.uber.org/zap"
)

// Bridge is the process-wide subscriber to the identity provider's
// session-change stream. It purges local auth artifacts on sign-out and token
// refresh, and triggers the navigation callback on sign-out. The subscription
// lives as long as the process.
type Bridge struct {
	storage   *Storage
	onSignOut func()
	logger    *zap.Logger
}

// NewBridge wires the artifact storage and an optional sign-out callback
// (navigation back to the login view in a UI consumer).
func NewBridge(storage *Storage, onSignOut func(), logger *zap.Logger) *Bridge {
	return &Bridge{storage: storage, onSignOut: onSignOut, logger: logger}
}

// Attach starts consuming the event stream. It returns immediately; the
// consuming goroutine runs until the channel closes, which in practice is
// never.
func (b *Bridge) Attach(events <-chan identity.AuthEvent) {
	go func() {
		for ev := range events {
			b.handle(ev)
		}
	}()
}

func (b *Bridge) handle(ev identity.AuthEvent) {
	b.logger.Info("Auth state changed", zap.String("event", string(ev.Type)))

	switch ev.Type {
	case identity.EventSignedOut:
		b.storage.PurgeAuth()
		if b.onSignOut != nil {
			b.onSignOut()
		}
	case identity.EventTokenRefreshed:
		b.storage.PurgeAuth()
	}
}

// Package ws maps authenticated user identities to live push connections and
// provides best-effort unicast and broadcast delivery.
package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stockwatch/internal/model"

	"github.com/rs/zerolog/log"
)

// ErrPolicyViolation rejects a connection attempt whose credential is missing,
// invalid, or resolves to an unknown user. The channel is closed and no
// registry entry is created.
var ErrPolicyViolation = errors.New("ws: policy violation")

// Conn is a live push channel. Production connections wrap a websocket; tests
// substitute fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// TokenDecoder resolves a bearer credential to a user email.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

// UserDirectory confirms a decoded identity actually exists.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// BroadcastResult reports best-effort fan-out delivery.
type BroadcastResult struct {
	Delivered int
	Failed    int
}

// Registry holds at most one live connection per user email. A reconnect for
// the same email replaces the previous entry — last write wins; the orphaned
// handle is not closed here.
type Registry struct {
	tokens TokenDecoder
	users  UserDirectory

	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry(tokens TokenDecoder, users UserDirectory) *Registry {
	return &Registry{
		tokens: tokens,
		users:  users,
		conns:  make(map[string]Conn),
	}
}

// Connect authenticates the credential and registers the connection under the
// resolved email. On any failure the connection gets an error frame, is
// closed, and ErrPolicyViolation is returned.
func (r *Registry) Connect(ctx context.Context, token string, conn Conn) (string, error) {
	email, err := r.tokens.Decode(token)
	if err != nil || email == "" {
		r.reject(conn, "Invalid or missing token")
		return "", fmt.Errorf("%w: invalid token", ErrPolicyViolation)
	}

	if _, err := r.users.FindByEmail(ctx, email); err != nil {
		r.reject(conn, "User not found")
		return "", fmt.Errorf("%w: unknown user %s", ErrPolicyViolation, email)
	}

	r.mu.Lock()
	r.conns[email] = conn
	r.mu.Unlock()

	log.Info().Str("user", email).Msg("ws: connected")
	return email, nil
}

func (r *Registry) reject(conn Conn, reason string) {
	_ = conn.WriteJSON(map[string]string{"error": reason})
	_ = conn.Close()
}

// Disconnect removes the entry for the email if present. A reconnect racing
// the disconnect of a stale handle is accepted: last write to the map wins.
func (r *Registry) Disconnect(email string) {
	r.mu.Lock()
	delete(r.conns, email)
	r.mu.Unlock()
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// SendTo delivers a message to one user. An absent entry is not an error —
// the user is simply offline and no transport call is made.
func (r *Registry) SendTo(email string, msg any) error {
	r.mu.RLock()
	conn, ok := r.conns[email]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}

// Broadcast attempts delivery to every live connection. A transport failure
// on one entry is logged, the entry is dropped, and the remaining entries are
// still attempted.
func (r *Registry) Broadcast(msg any) BroadcastResult {
	r.mu.RLock()
	snapshot := make(map[string]Conn, len(r.conns))
	for email, conn := range r.conns {
		snapshot[email] = conn
	}
	r.mu.RUnlock()

	var res BroadcastResult
	for email, conn := range snapshot {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn().Err(err).Str("user", email).Msg("ws: broadcast delivery failed")
			res.Failed++
			r.dropIfCurrent(email, conn)
			continue
		}
		res.Delivered++
	}
	return res
}

// dropIfCurrent removes the entry only when it still holds the failed handle,
// so a concurrent reconnect is never evicted.
func (r *Registry) dropIfCurrent(email string, conn Conn) {
	r.mu.Lock()
	if current, ok := r.conns[email]; ok && current == conn {
		delete(r.conns, email)
	}
	r.mu.Unlock()
	_ = conn.Close()
}

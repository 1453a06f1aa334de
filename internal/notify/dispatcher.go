// Package notify fans critical-stock events out to live websocket clients
// and, via rate-limited bulk email, to every known user.
package notify

import (
	"context"

	"stockwatch/internal/ws"

	"github.com/rs/zerolog/log"
)

// Broadcaster is what the dispatcher needs from the connection registry.
type Broadcaster interface {
	Len() int
	Broadcast(msg any) ws.BroadcastResult
}

// Directory lists all known recipient addresses.
type Directory interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// Dispatcher delivers one rendered notification over both channels:
// best-effort realtime broadcast plus optional bulk email.
type Dispatcher struct {
	registry Broadcaster
	users    Directory
	sender   *BatchSender
}

func NewDispatcher(registry Broadcaster, users Directory, sender *BatchSender) *Dispatcher {
	return &Dispatcher{registry: registry, users: users, sender: sender}
}

// Dispatch broadcasts wsMessage to live connections (skipped when nobody is
// online) and, when sendEmail is set, bulk-sends the email to all users.
// Failures are logged, never returned — callers run inside background
// schedulers that must not die.
func (d *Dispatcher) Dispatch(ctx context.Context, wsMessage any, subject, htmlBody string, sendEmail bool) {
	if d.registry.Len() > 0 {
		res := d.registry.Broadcast(wsMessage)
		log.Info().Int("delivered", res.Delivered).Int("failed", res.Failed).
			Msg("notify: realtime broadcast")
	}

	if !sendEmail {
		return
	}

	emails, err := d.users.ListEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("notify: failed to resolve recipients")
		return
	}
	if len(emails) == 0 {
		log.Warn().Msg("notify: no users to email")
		return
	}

	if sent, ok := d.sender.SendBulk(ctx, emails, subject, htmlBody); !ok {
		log.Error().Int("sent", sent).Msg("notify: bulk email run failed")
	} else {
		log.Info().Int("sent", sent).Msg("notify: bulk email dispatched")
	}
}

package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"stockwatch/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBatchSize keeps bulk sends inside Gmail's recommended rate.
	DefaultBatchSize = 10
	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = 2 * time.Second
)

// Mailer is the outbound mail-transport collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// BatchSender delivers bulk email in fixed-size batches: sends within a batch
// run concurrently, batches run sequentially with a pause between them.
type BatchSender struct {
	mailer     Mailer
	batchSize  int
	batchDelay time.Duration
}

func NewBatchSender(mailer Mailer, batchSize int, batchDelay time.Duration) *BatchSender {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchDelay <= 0 {
		batchDelay = DefaultBatchDelay
	}
	return &BatchSender{mailer: mailer, batchSize: batchSize, batchDelay: batchDelay}
}

// SendBulk sends subject/htmlBody (plus the derived plain-text body) to every
// recipient. A single recipient's failure is logged and the rest proceed. An
// SMTP authentication failure means the whole run is doomed: the remaining
// batches are abandoned and ok is false. The error never propagates — the
// background scheduler calling this must keep running.
func (b *BatchSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) (sent int, ok bool) {
	if len(recipients) == 0 {
		log.Warn().Msg("bulk email: no recipients")
		return 0, true
	}

	textBody := HTMLToPlain(htmlBody)

	var delivered atomic.Int64
	var fatal atomic.Bool

	for start := 0; start < len(recipients); start += b.batchSize {
		end := start + b.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		batch := recipients[start:end]

		var wg sync.WaitGroup
		for _, to := range batch {
			wg.Add(1)
			go func(to string) {
				defer wg.Done()
				if err := b.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
					if errors.Is(err, infra.ErrSMTPAuth) {
						fatal.Store(true)
					}
					log.Error().Err(err).Str("to", to).Msg("bulk email: send failed")
					return
				}
				delivered.Add(1)
			}(to)
		}
		wg.Wait()

		if fatal.Load() {
			log.Error().Msg("bulk email: smtp authentication failed — aborting run")
			return int(delivered.Load()), false
		}

		log.Info().
			Int("batch", start/b.batchSize+1).
			Int("size", len(batch)).
			Msg("bulk email: batch sent")

		if end < len(recipients) {
			select {
			case <-ctx.Done():
				return int(delivered.Load()), false
			case <-time.After(b.batchDelay):
			}
		}
	}

	log.Info().Int("recipients", len(recipients)).Int("delivered", int(delivered.Load())).
		Msg("bulk email: completed")
	return int(delivered.Load()), true
}

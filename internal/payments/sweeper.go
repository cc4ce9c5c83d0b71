package payments

import (
	"context"
	"time"

	"github.com/chitfundhq/chitfund/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultSweepInterval = 15 * time.Minute

// Sweeper periodically flips unpaid payments past their due date to
// Overdue. Recording a collection recomputes the status on its own; the
// sweeper keeps untouched rows honest in between.
type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
}

// NewSweeper constructs an overdue sweeper.
func NewSweeper(db *gorm.DB) *Sweeper {
	if db == nil {
		return nil
	}
	return &Sweeper{db: db, interval: defaultSweepInterval}
}

// Start launches the sweep loop in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("overdue sweeper started (interval=%s)", s.interval)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.Sweep(ctx)
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

// Sweep runs one pass and returns how many payments were flipped.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	if s == nil {
		return 0
	}
	flipped, errMark := store.NewPaymentStore(s.db).MarkOverdue(ctx, time.Now().UTC())
	if errMark != nil {
		log.WithError(errMark).Warn("overdue sweep failed")
		return 0
	}
	if flipped > 0 {
		log.Infof("overdue sweep flipped %d payments", flipped)
	}
	return flipped
}

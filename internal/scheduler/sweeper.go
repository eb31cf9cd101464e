package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okonev/orderdesk/internal/domain/model"
)

// AutomationFacade exposes the subset of application functionality required by the sweeper.
type AutomationFacade interface {
	DueOrders(ctx context.Context, limit int) ([]model.Order, error)
	AutoAdvance(ctx context.Context, orderID int64) error
}

// Sweeper periodically collects orders whose schedule has elapsed and advances them concurrently.
type Sweeper struct {
	facade        AutomationFacade
	sweepInterval time.Duration
	batchSize     int
	workers       int
	logger        *slog.Logger

	jobs     chan model.Order
	sweeping atomic.Bool
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewSweeper constructs the automation worker pool.
func NewSweeper(facade AutomationFacade, sweepInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:        facade,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.Order, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	var sweeps sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			sweeps.Wait()
			close(s.jobs)
			return
		case <-ticker.C:
			// A slow batch must not stack a second sweep on top of itself.
			if !s.sweeping.CompareAndSwap(false, true) {
				s.logger.Warn("previous sweep still running, skipping tick")
				continue
			}
			sweeps.Add(1)
			go func() {
				defer sweeps.Done()
				defer s.sweeping.Store(false)
				s.sweep(ctx)
			}()
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	orders, err := s.facade.DueOrders(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch due orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			if err := s.facade.AutoAdvance(ctx, order.ID); err != nil {
				s.logger.Error("auto advance failed",
					slog.Int64("order_id", order.ID),
					slog.String("status", string(order.Status)),
					slog.String("error", err.Error()))
			}
		}
	}
}

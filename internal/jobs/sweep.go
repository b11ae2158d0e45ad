package jobs

import (
	"context"

	"bj-service/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type PendingSettler interface {
	SettlePending(ctx context.Context, limit int) (int, error)
}

// SettlementSweep periodically settles round documents that nobody has asked
// for yet.
type SettlementSweep struct {
	settler PendingSettler
	spec    string
	batch   int
}

func NewSettlementSweep(settler PendingSettler, spec string, batch int) *SettlementSweep {
	if batch <= 0 {
		batch = 100
	}
	return &SettlementSweep{settler: settler, spec: spec, batch: batch}
}

func (s *SettlementSweep) Start(ctx context.Context) {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		logger.Log.Error("Invalid settlement sweep spec", zap.String("spec", s.spec), zap.Error(err))
		return
	}
	c.Start()
	logger.Log.Info("Settlement sweep scheduled", zap.String("spec", s.spec), zap.Int("batch", s.batch))

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Log.Info("Settlement sweep stopped")
}

// RunOnce settles one batch and returns how many documents were settled.
func (s *SettlementSweep) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	n, err := s.settler.SettlePending(ctx, s.batch)
	if err != nil {
		logger.Log.Error("Settlement sweep failed", zap.Int("settled", n), zap.Error(err))
		return n
	}
	if n > 0 {
		logger.Log.Info("Settlement sweep settled rounds", zap.Int("settled", n))
	}
	return n
}

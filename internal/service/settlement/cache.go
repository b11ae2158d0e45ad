package settlement

import (
	"context"
	"encoding/json"

	"bj-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func buildSettlementKey(tableRoundID string) string {
	return "bj:settlement:" + tableRoundID
}

func (s *Service) cachedReports(ctx context.Context, tableRoundID string) ([]*Report, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, buildSettlementKey(tableRoundID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Settlement cache read failed", zap.String("tableRoundID", tableRoundID), zap.Error(err))
		}
		return nil, false
	}
	var reports []*Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		logger.Log.Warn("Dropping unreadable settlement cache entry", zap.String("tableRoundID", tableRoundID), zap.Error(err))
		s.invalidateCache(ctx, tableRoundID)
		return nil, false
	}
	return reports, true
}

func (s *Service) cacheReports(ctx context.Context, tableRoundID string, reports []*Report) {
	if s.rdb == nil || len(reports) == 0 {
		return
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, buildSettlementKey(tableRoundID), raw, s.cfg.CacheTTL).Err(); err != nil {
		logger.Log.Warn("Settlement cache write failed", zap.String("tableRoundID", tableRoundID), zap.Error(err))
	}
}

func (s *Service) invalidateCache(ctx context.Context, tableRoundID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, buildSettlementKey(tableRoundID)).Err(); err != nil {
		logger.Log.Warn("Settlement cache delete failed", zap.String("tableRoundID", tableRoundID), zap.Error(err))
	}
}

package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"bj-service/internal/model"
	"bj-service/internal/monitoring"
	"bj-service/internal/service/game"
	"bj-service/internal/service/round"
	appErr "bj-service/pkg/errors"
	"bj-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Config struct {
	CacheTTL time.Duration
	Workers  int
}

func defaultConfig() Config {
	return Config{
		CacheTTL: time.Hour,
		Workers:  4,
	}
}

// Notifier receives every newly persisted settlement. Implementations must not
// block for long; failures are theirs to log.
type Notifier interface {
	Notify(ctx context.Context, report *Report)
}

// Report is a settled round document together with its audit identity.
type Report struct {
	SettlementID   string                `json:"settlementId,omitempty"`
	TableRoundID   string                `json:"tableRoundId,omitempty"`
	RoundDataID    int64                 `json:"roundDataId,omitempty"`
	SettledAt      time.Time             `json:"settledAt"`
	Settlement     *game.RoundSettlement `json:"settlement"`
	DecodeWarnings []game.Warning        `json:"decodeWarnings,omitempty"`
}

type Service struct {
	db        *gorm.DB
	rdb       *redis.Client
	rounds    *round.Service
	engine    *game.Engine
	cfg       Config
	notifiers []Notifier
}

func NewService(db *gorm.DB, rdb *redis.Client, rounds *round.Service) *Service {
	return &Service{
		db:     db,
		rdb:    rdb,
		rounds: rounds,
		engine: game.NewEngine(logger.Named("engine")),
		cfg:    defaultConfig(),
	}
}

func (s *Service) WithConfig(cfg Config) *Service {
	if cfg.CacheTTL > 0 {
		s.cfg.CacheTTL = cfg.CacheTTL
	}
	if cfg.Workers > 0 {
		s.cfg.Workers = cfg.Workers
	}
	return s
}

func (s *Service) AddNotifier(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Calculate settles a raw round document without storing anything.
func (s *Service) Calculate(ctx context.Context, raw []byte) (*Report, error) {
	r, err := round.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Report{
		SettledAt:      time.Now(),
		Settlement:     s.engine.Settle(r.DealerHand, r.Seats),
		DecodeWarnings: r.Warnings,
	}, nil
}

// SettleTableRound settles and stores every round document recorded for the
// table round. Documents already settled are returned from storage. Documents
// that cannot be decoded are logged and skipped.
func (s *Service) SettleTableRound(ctx context.Context, tableRoundID string) ([]*Report, error) {
	rows, err := s.rounds.ListByTableRound(ctx, tableRoundID)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(rows))
	for _, row := range rows {
		report, err := s.settleRow(ctx, row)
		if err != nil {
			if errors.Is(err, appErr.ErrInvalidRoundDocument) {
				logger.Log.Error("Failed to parse player round data",
					zap.String("tableRoundID", row.TableRoundID),
					zap.Int64("roundDataID", row.ID),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: no document of table round %s could be decoded", appErr.ErrInvalidRoundDocument, tableRoundID)
	}

	s.cacheReports(ctx, reports[0].TableRoundID, reports)
	return reports, nil
}

// SettlePending settles up to limit unsettled round documents with a bounded
// number of workers and returns how many were settled.
func (s *Service) SettlePending(ctx context.Context, limit int) (int, error) {
	rows, err := s.rounds.ListUnsettled(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var settled atomic.Int64
	touched := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		touched[row.TableRoundID] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			if _, err := s.settleRow(gctx, row); err != nil {
				if errors.Is(err, appErr.ErrInvalidRoundDocument) {
					logger.Log.Warn("Skipping undecodable round document",
						zap.String("tableRoundID", row.TableRoundID),
						zap.Int64("roundDataID", row.ID),
						zap.Error(err),
					)
					return nil
				}
				return err
			}
			settled.Add(1)
			return nil
		})
	}
	err = g.Wait()

	for tableRoundID := range touched {
		s.invalidateCache(ctx, tableRoundID)
	}
	return int(settled.Load()), err
}

// GetSettlement returns the stored reports of a table round.
func (s *Service) GetSettlement(ctx context.Context, tableRoundID string) ([]*Report, error) {
	tableRoundID = strings.TrimSpace(tableRoundID)
	if tableRoundID == "" {
		return nil, appErr.ErrInvalidTableRoundID
	}
	if reports, ok := s.cachedReports(ctx, tableRoundID); ok {
		return reports, nil
	}

	var records []model.RoundSettlement
	if err := s.db.WithContext(ctx).
		Where("table_round_id = ?", tableRoundID).
		Order("round_data_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, appErr.ErrSettlementNotFound
	}

	reports := make([]*Report, 0, len(records))
	for _, rec := range records {
		report, err := reportFromRecord(rec)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	s.cacheReports(ctx, tableRoundID, reports)
	return reports, nil
}

func (s *Service) settleRow(ctx context.Context, row model.PlayerRoundData) (*Report, error) {
	existing, err := s.loadRecord(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return reportFromRecord(*existing)
	}

	r, err := round.Decode(row.PlayerRoundData)
	if err != nil {
		monitoring.SettlementFailures.WithLabelValues("decode").Inc()
		return nil, err
	}

	report := &Report{
		SettlementID:   uuid.NewString(),
		TableRoundID:   row.TableRoundID,
		RoundDataID:    row.ID,
		SettledAt:      time.Now(),
		Settlement:     s.engine.Settle(r.DealerHand, r.Seats),
		DecodeWarnings: r.Warnings,
	}

	if err := s.persist(ctx, report); err != nil {
		// a concurrent settle of the same document wins the unique index
		if stored, loadErr := s.loadRecord(ctx, row.ID); loadErr == nil && stored != nil {
			return reportFromRecord(*stored)
		}
		monitoring.SettlementFailures.WithLabelValues("persist").Inc()
		return nil, fmt.Errorf("%w: %v", appErr.ErrSettlementFailed, err)
	}

	monitoring.ObserveSettlement(report.Settlement, report.DecodeWarnings)
	logger.Log.Info("Round settled",
		zap.String("settlementID", report.SettlementID),
		zap.String("tableRoundID", report.TableRoundID),
		zap.Int64("roundDataID", report.RoundDataID),
		zap.Int("seats", len(report.Settlement.Seats)),
		zap.String("totalPayout", report.Settlement.TotalPayout.String()),
	)
	for _, n := range s.notifiers {
		n.Notify(ctx, report)
	}
	return report, nil
}

func (s *Service) loadRecord(ctx context.Context, roundDataID int64) (*model.RoundSettlement, error) {
	var rec model.RoundSettlement
	// Find avoids the record-not-found log that First would emit
	err := s.db.WithContext(ctx).
		Where("round_data_id = ?", roundDataID).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (s *Service) persist(ctx context.Context, report *Report) error {
	rs := report.Settlement
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := model.RoundSettlement{
			ID:           report.SettlementID,
			TableRoundID: report.TableRoundID,
			RoundDataID:  report.RoundDataID,
			DealerCards:  mustJSON(rs.DealerCards),
			DealerValue:  rs.DealerValue,
			SeatCount:    len(rs.Seats),
			TotalPayout:  rs.TotalPayout,
			ResultJSON:   mustJSON(report),
			WarningsJSON: mustJSON(append(append([]game.Warning{}, report.DecodeWarnings...), rs.Warnings...)),
			CreatedAt:    report.SettledAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		logs := make([]model.SeatPayoutLog, 0, len(rs.Seats))
		for _, seat := range rs.Seats {
			logs = append(logs, model.SeatPayoutLog{
				SettlementID: record.ID,
				TableRoundID: record.TableRoundID,
				SeatID:       seat.SeatID,
				PlayerID:     seat.PlayerID,
				Cards:        mustJSON(seat.Cards),
				HandValue:    seat.Value,
				Outcome:      seat.Outcome.String(),
				MainWager:    seat.MainWager,
				MainPayout:   seat.MainPayout,
				SidePayout:   seat.SidePayout,
				TotalPayout:  seat.TotalPayout,
				SideBetsJSON: mustJSON(seat.SidePayouts),
				Details:      seat.Details,
				CreatedAt:    report.SettledAt,
			})
		}
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func reportFromRecord(rec model.RoundSettlement) (*Report, error) {
	var report Report
	if err := json.Unmarshal(rec.ResultJSON, &report); err != nil {
		return nil, fmt.Errorf("decode stored settlement %s: %w", rec.ID, err)
	}
	return &report, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

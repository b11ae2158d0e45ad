package round

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bj-service/internal/model"
	appErr "bj-service/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service reads and ingests recorded round documents.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListByTableRound(ctx context.Context, tableRoundID string) ([]model.PlayerRoundData, error) {
	tableRoundID = strings.TrimSpace(tableRoundID)
	if tableRoundID == "" {
		return nil, appErr.ErrInvalidTableRoundID
	}

	var rows []model.PlayerRoundData
	if err := s.db.WithContext(ctx).
		Where("table_round_id = ?", tableRoundID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErr.ErrRoundNotFound
	}
	return rows, nil
}

// ListUnsettled returns rows without a settlement record, oldest first.
func (s *Service) ListUnsettled(ctx context.Context, limit int) ([]model.PlayerRoundData, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []model.PlayerRoundData
	err := s.db.WithContext(ctx).
		Model(&model.PlayerRoundData{}).
		Where("NOT EXISTS (?)", s.db.Model(&model.RoundSettlement{}).
			Select("1").
			Where("round_settlements.round_data_id = player_round_data.id")).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create stores a raw round document. The document must at least be a JSON
// object; field-level problems are left for settlement to report.
func (s *Service) Create(ctx context.Context, tableRoundID string, raw []byte) (*model.PlayerRoundData, error) {
	tableRoundID = strings.TrimSpace(tableRoundID)
	if tableRoundID == "" {
		return nil, appErr.ErrInvalidTableRoundID
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", appErr.ErrInvalidRoundDocument)
	}
	if _, err := Decode(raw); err != nil {
		return nil, err
	}

	row := model.PlayerRoundData{
		TableRoundID:    tableRoundID,
		PlayerRoundData: datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

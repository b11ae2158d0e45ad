package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PlayerRoundData is one recorded round document for a table round, as
// written by the table system.
type PlayerRoundData struct {
	ID              int64          `gorm:"primaryKey;autoIncrement"`
	TableRoundID    string         `gorm:"size:64;index;not null"`
	PlayerRoundData datatypes.JSON
	CreatedAt       time.Time
}

type RoundSettlement struct {
	ID           string          `gorm:"primaryKey;size:36"`
	TableRoundID string          `gorm:"size:64;index;not null"`
	RoundDataID  int64           `gorm:"uniqueIndex;not null"`
	DealerCards  datatypes.JSON
	DealerValue  int
	SeatCount    int
	TotalPayout  decimal.Decimal `gorm:"type:numeric(20,4)"`
	ResultJSON   datatypes.JSON
	WarningsJSON datatypes.JSON
	CreatedAt    time.Time
}

type SeatPayoutLog struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	SettlementID string          `gorm:"size:36;index;not null"`
	TableRoundID string          `gorm:"size:64;index"`
	SeatID       string          `gorm:"size:32"`
	PlayerID     string          `gorm:"size:64;index"`
	Cards        datatypes.JSON
	HandValue    int
	Outcome      string          `gorm:"size:16"` // Push/BlackJack/HandWin/Loss
	MainWager    decimal.Decimal `gorm:"type:numeric(20,4)"`
	MainPayout   decimal.Decimal `gorm:"type:numeric(20,4)"`
	SidePayout   decimal.Decimal `gorm:"type:numeric(20,4)"`
	TotalPayout  decimal.Decimal `gorm:"type:numeric(20,4)"`
	SideBetsJSON datatypes.JSON
	Details      string
	CreatedAt    time.Time
}

// All lists the models migrated at startup.
func All() []interface{} {
	return []interface{}{
		&PlayerRoundData{},
		&RoundSettlement{},
		&SeatPayoutLog{},
	}
}

func (PlayerRoundData) TableName() string { return "player_round_data" }

func (RoundSettlement) TableName() string { return "round_settlements" }

func (SeatPayoutLog) TableName() string { return "seat_payout_logs" }

package service

import (
	"context"

	"bj-service/internal/service/round"
	"bj-service/internal/service/settlement"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Round      *round.Service
	Settlement *settlement.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client, cfg settlement.Config) *Container {
	rounds := round.NewService(db)
	return &Container{
		Round:      rounds,
		Settlement: settlement.NewService(db, rdb, rounds).WithConfig(cfg),
	}
}

// Start settles whatever was left unsettled while the service was down.
func (c *Container) Start(ctx context.Context, backlog int) error {
	if backlog <= 0 {
		return nil
	}
	_, err := c.Settlement.SettlePending(ctx, backlog)
	return err
}

package booking

import (
	"context"

	"github.com/sweetmerry/booking-api/internal/cache"
	domain "github.com/sweetmerry/booking-api/internal/domain/booking"
)

type StatsOverview struct {
	repo  domain.Repository
	cache *cache.Cache
}

func NewStatsOverview(repo domain.Repository, c *cache.Cache) *StatsOverview {
	return &StatsOverview{repo: repo, cache: c}
}

func (uc *StatsOverview) Execute(ctx context.Context) (*domain.StatsOverview, error) {
	var cached domain.StatsOverview
	if uc.cache != nil && uc.cache.GetJSON(ctx, cache.KeyBookingStats, &cached) {
		return &cached, nil
	}

	stats, err := uc.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.SetJSON(ctx, cache.KeyBookingStats, stats, cache.DefaultTTL)
	}

	return stats, nil
}

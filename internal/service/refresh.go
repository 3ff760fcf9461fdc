package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/realtime"
	"github.com/Manh-Duc-NT/GoRide/internal/redis"
)

// DefaultRefreshInterval is the cadence at which candidate lists are
// pushed to available drivers.
const DefaultRefreshInterval = 2 * time.Minute

// CandidateRefresher periodically recomputes the candidate ride list
// for every available driver and pushes it over the realtime hub.
// Drivers that poll instead of subscribing see the same data through
// the candidates endpoint.
type CandidateRefresher struct {
	matching   *MatchingService
	cacheStore redis.CacheStoreInterface
	hub        *realtime.Hub
	interval   time.Duration
	log        *logrus.Logger
}

// NewCandidateRefresher creates a new CandidateRefresher. A
// non-positive interval falls back to DefaultRefreshInterval.
func NewCandidateRefresher(
	matching *MatchingService,
	cacheStore redis.CacheStoreInterface,
	hub *realtime.Hub,
	interval time.Duration,
	log *logrus.Logger,
) *CandidateRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &CandidateRefresher{
		matching:   matching,
		cacheStore: cacheStore,
		hub:        hub,
		interval:   interval,
		log:        log,
	}
}

// Run pushes candidate lists on every tick until the context is
// cancelled. It is meant to be started in its own goroutine.
func (r *CandidateRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *CandidateRefresher) refresh(ctx context.Context) {
	driverIDs, err := r.cacheStore.GetAvailableDrivers(ctx)
	if err != nil {
		if r.log != nil {
			r.log.WithError(err).Warn("failed to list available drivers")
		}
		return
	}

	for _, driverID := range driverIDs {
		candidates, err := r.matching.Candidates(ctx, driverID)
		if err != nil {
			if r.log != nil {
				r.log.WithError(err).WithField("driver_id", driverID).Warn("candidate refresh failed")
			}
			continue
		}
		r.hub.NotifyDriver(driverID, realtime.EventCandidates, candidates)
	}
}

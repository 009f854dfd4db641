package coordinator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pfrederiksen/dieliga/internal/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSpec refreshes twice a day.
const DefaultSpec = "@every 12h"

// refreshTimeout bounds one scheduled cycle.
const refreshTimeout = 5 * time.Minute

// Run refreshes once immediately and then on every tick of spec until ctx is
// done. Failed cycles are logged and retried on the next tick.
func (c *Coordinator) Run(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}

	cr := cron.New(cron.WithLocation(c.loc))
	if _, err := cr.AddFunc(spec, func() { c.refreshLogged(ctx) }); err != nil {
		return errors.Wrapf(err, "invalid refresh schedule %q", spec)
	}

	c.refreshLogged(ctx)

	cr.Start()
	c.log.Info("Refresh scheduler started", logger.Fields{"league_id": c.leagueID, "schedule": spec})

	<-ctx.Done()
	<-cr.Stop().Done()
	c.log.Info("Refresh scheduler stopped", logger.Fields{"league_id": c.leagueID})
	return nil
}

func (c *Coordinator) refreshLogged(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := c.Refresh(ctx); err != nil {
		c.log.Error("Refresh failed, keeping previous data", logger.Fields{"league_id": c.leagueID}, err)
	}
}

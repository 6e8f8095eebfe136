package oura

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultWindowDays is the trailing lookback used for every fetch.
const DefaultWindowDays = 30

const dateLayout = "2006-01-02"

// Window is an inclusive range of calendar dates in YYYY-MM-DD form.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrailingWindow returns the window ending on now's UTC date and starting
// days*24h earlier.
func TrailingWindow(now time.Time, days int) Window {
	now = now.UTC()
	return Window{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour).Format(dateLayout),
		End:   now.Format(dateLayout),
	}
}

// FetchAll retrieves the four collections concurrently. It fails as a whole
// if any single request fails.
func (c *Client) FetchAll(ctx context.Context, w Window) (*Collections, error) {
	var out Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := collection[DailySleep](gctx, c, ResourceDailySleep, w)
		out.DailySleep = data
		return err
	})
	g.Go(func() error {
		data, err := collection[Sleep](gctx, c, ResourceSleep, w)
		out.Sleep = data
		return err
	})
	g.Go(func() error {
		data, err := collection[DailyReadiness](gctx, c, ResourceDailyReadiness, w)
		out.DailyReadiness = data
		return err
	})
	g.Go(func() error {
		data, err := collection[DailyActivity](gctx, c, ResourceDailyActivity, w)
		out.DailyActivity = data
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched collections",
		"daily_sleep", len(out.DailySleep),
		"sleep", len(out.Sleep),
		"daily_readiness", len(out.DailyReadiness),
		"daily_activity", len(out.DailyActivity))
	return &out, nil
}

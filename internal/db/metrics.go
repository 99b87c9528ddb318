package db

import (
	"context"
	"time"

	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveNewActivity(ctx context.Context, address string, activityDoc *model.ActivityDocument) error {
	return d.run("SaveNewActivity", func() error {
		return d.db.SaveNewActivity(ctx, address, activityDoc)
	})
}

func (d *DbWithMetrics) HasActivity(ctx context.Context, address string, txHash string) (result bool, err error) {
	//nolint:errcheck
	d.run("HasActivity", func() error {
		result, err = d.db.HasActivity(ctx, address, txHash)
		return err
	})

	return
}

func (d *DbWithMetrics) CountActivities(ctx context.Context, address string) (result int64, err error) {
	//nolint:errcheck
	d.run("CountActivities", func() error {
		result, err = d.db.CountActivities(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) MarkActivitiesProcessed(ctx context.Context, address string) (result int64, err error) {
	//nolint:errcheck
	d.run("MarkActivitiesProcessed", func() error {
		result, err = d.db.MarkActivitiesProcessed(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) UpsertPosition(ctx context.Context, address string, positionDoc *model.PositionDocument) error {
	return d.run("UpsertPosition", func() error {
		return d.db.UpsertPosition(ctx, address, positionDoc)
	})
}

func (d *DbWithMetrics) GetPositions(ctx context.Context, address string) (result []model.PositionDocument, err error) {
	//nolint:errcheck
	d.run("GetPositions", func() error {
		result, err = d.db.GetPositions(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) CountPositions(ctx context.Context, address string) (result int64, err error) {
	//nolint:errcheck
	d.run("CountPositions", func() error {
		result, err = d.db.CountPositions(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) GetBackfillCompleted(ctx context.Context) (result bool, err error) {
	//nolint:errcheck
	d.run("GetBackfillCompleted", func() error {
		result, err = d.db.GetBackfillCompleted(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SetBackfillCompleted(ctx context.Context) error {
	return d.run("SetBackfillCompleted", func() error {
		return d.db.SetBackfillCompleted(ctx)
	})
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	start := time.Now()
	err := f()
	duration := time.Since(start)

	metrics.RecordDbLatency(method, duration, err == nil)
	return err
}

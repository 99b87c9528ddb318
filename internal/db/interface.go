package db

import (
	"context"

	"github.com/polycopy/trade-monitor/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error
	SaveNewActivity(
		ctx context.Context, address string, activityDoc *model.ActivityDocument,
	) error
	HasActivity(
		ctx context.Context, address string, txHash string,
	) (bool, error)
	CountActivities(ctx context.Context, address string) (int64, error)
	MarkActivitiesProcessed(ctx context.Context, address string) (int64, error)
	UpsertPosition(
		ctx context.Context, address string, positionDoc *model.PositionDocument,
	) error
	GetPositions(ctx context.Context, address string) ([]model.PositionDocument, error)
	CountPositions(ctx context.Context, address string) (int64, error)
	GetBackfillCompleted(ctx context.Context) (bool, error)
	SetBackfillCompleted(ctx context.Context) error
}

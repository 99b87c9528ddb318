package model

import (
	"github.com/polycopy/trade-monitor/internal/types"
)

// ActivityTypeTrade is the only activity type persisted by the monitor.
const ActivityTypeTrade = "TRADE"

// BackfillAttemptsSentinel marks records swept by the one-time backfill
// suppression so they are distinguishable from records processed live.
const BackfillAttemptsSentinel = 999

// ActivityDocument is one trade event stored in a tracked address's
// activity collection. transaction_hash carries a unique index, which is
// what makes ingestion idempotent.
type ActivityDocument struct {
	ProxyWallet           string  `bson:"proxy_wallet"`
	Timestamp             int64   `bson:"timestamp"`
	ConditionID           string  `bson:"condition_id"`
	Type                  string  `bson:"type"`
	Size                  float64 `bson:"size"`
	USDCSize              float64 `bson:"usdc_size"`
	TransactionHash       string  `bson:"transaction_hash"`
	Price                 float64 `bson:"price"`
	Asset                 string  `bson:"asset"`
	Side                  string  `bson:"side"`
	OutcomeIndex          int     `bson:"outcome_index"`
	Title                 string  `bson:"title"`
	Slug                  string  `bson:"slug"`
	Icon                  string  `bson:"icon"`
	EventSlug             string  `bson:"event_slug"`
	Outcome               string  `bson:"outcome"`
	Name                  string  `bson:"name"`
	Pseudonym             string  `bson:"pseudonym"`
	Bio                   string  `bson:"bio"`
	ProfileImage          string  `bson:"profile_image"`
	ProfileImageOptimized string  `bson:"profile_image_optimized"`
	Processed             bool    `bson:"processed"`
	ProcessAttempts       int     `bson:"process_attempts"`
}

func FromTradeActivity(activity *types.TradeActivity) *ActivityDocument {
	return &ActivityDocument{
		ProxyWallet:           activity.ProxyWallet,
		Timestamp:             activity.Timestamp,
		ConditionID:           activity.ConditionID,
		Type:                  ActivityTypeTrade,
		Size:                  activity.Size,
		USDCSize:              activity.USDCSize(),
		TransactionHash:       activity.TransactionHash,
		Price:                 activity.Price,
		Asset:                 activity.Asset,
		Side:                  activity.Side,
		OutcomeIndex:          activity.OutcomeIndex,
		Title:                 activity.Title,
		Slug:                  activity.Slug,
		Icon:                  activity.Icon,
		EventSlug:             activity.EventSlug,
		Outcome:               activity.Outcome,
		Name:                  activity.Name,
		Pseudonym:             activity.Pseudonym,
		Bio:                   activity.Bio,
		ProfileImage:          activity.ProfileImage,
		ProfileImageOptimized: activity.ProfileImageOptimized,
		Processed:             false,
		ProcessAttempts:       0,
	}
}

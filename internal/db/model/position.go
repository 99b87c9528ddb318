package model

import (
	"github.com/polycopy/trade-monitor/internal/types"
)

// PositionDocument is the stored snapshot of one position for a tracked
// address, keyed by (asset, condition_id). Every synchronization pass
// replaces the whole document with whatever the data API currently
// reports.
type PositionDocument struct {
	ProxyWallet        string  `bson:"proxy_wallet"`
	Asset              string  `bson:"asset"`
	ConditionID        string  `bson:"condition_id"`
	Size               float64 `bson:"size"`
	AvgPrice           float64 `bson:"avg_price"`
	InitialValue       float64 `bson:"initial_value"`
	CurrentValue       float64 `bson:"current_value"`
	CashPnl            float64 `bson:"cash_pnl"`
	PercentPnl         float64 `bson:"percent_pnl"`
	TotalBought        float64 `bson:"total_bought"`
	RealizedPnl        float64 `bson:"realized_pnl"`
	PercentRealizedPnl float64 `bson:"percent_realized_pnl"`
	CurPrice           float64 `bson:"cur_price"`
	Redeemable         bool    `bson:"redeemable"`
	Mergeable          bool    `bson:"mergeable"`
	Title              string  `bson:"title"`
	Slug               string  `bson:"slug"`
	Icon               string  `bson:"icon"`
	EventSlug          string  `bson:"event_slug"`
	Outcome            string  `bson:"outcome"`
	OutcomeIndex       int     `bson:"outcome_index"`
	OppositeOutcome    string  `bson:"opposite_outcome"`
	OppositeAsset      string  `bson:"opposite_asset"`
	EndDate            string  `bson:"end_date"`
	NegativeRisk       bool    `bson:"negative_risk"`
}

func FromPositionSnapshot(position *types.PositionSnapshot) *PositionDocument {
	return &PositionDocument{
		ProxyWallet:        position.ProxyWallet,
		Asset:              position.Asset,
		ConditionID:        position.ConditionID,
		Size:               position.Size,
		AvgPrice:           position.AvgPrice,
		InitialValue:       position.InitialValue,
		CurrentValue:       position.CurrentValue,
		CashPnl:            position.CashPnl,
		PercentPnl:         position.PercentPnl,
		TotalBought:        position.TotalBought,
		RealizedPnl:        position.RealizedPnl,
		PercentRealizedPnl: position.PercentRealizedPnl,
		CurPrice:           position.CurPrice,
		Redeemable:         position.Redeemable,
		Mergeable:          position.Mergeable,
		Title:              position.Title,
		Slug:               position.Slug,
		Icon:               position.Icon,
		EventSlug:          position.EventSlug,
		Outcome:            position.Outcome,
		OutcomeIndex:       position.OutcomeIndex,
		OppositeOutcome:    position.OppositeOutcome,
		OppositeAsset:      position.OppositeAsset,
		EndDate:            position.EndDate,
		NegativeRisk:       position.NegativeRisk,
	}
}

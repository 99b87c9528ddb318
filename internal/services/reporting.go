package services

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/utils"
)

// PositionSummary aggregates a set of position snapshots into the figures
// reported at startup.
type PositionSummary struct {
	Count        int
	TotalValue   float64
	InitialValue float64
	// OverallPnl is the value-weighted percent PnL across all positions.
	OverallPnl float64
	Top        []model.PositionDocument
}

// SummarizePositions computes aggregate value and the value-weighted PnL
// over the given snapshots, and picks the topN positions by percent PnL.
// Weighting by current value means empty or worthless positions do not
// drag the overall figure; with zero total value the overall PnL is zero.
func SummarizePositions(positions []model.PositionDocument, topN int) PositionSummary {
	summary := PositionSummary{Count: len(positions)}

	var weightedPnl float64
	for _, p := range positions {
		summary.TotalValue += p.CurrentValue
		summary.InitialValue += p.InitialValue
		weightedPnl += p.CurrentValue * p.PercentPnl
	}
	if summary.TotalValue > 0 {
		summary.OverallPnl = weightedPnl / summary.TotalValue
	}

	top := make([]model.PositionDocument, len(positions))
	copy(top, positions)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].PercentPnl > top[j].PercentPnl
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	summary.Top = top

	return summary
}

// Reporter receives the startup summaries. The default implementation
// writes them to the log; tests substitute a recorder.
type Reporter interface {
	StartupSummary(addresses []string, activityCounts, positionCounts map[string]int64)
	OperatorSummary(wallet string, summary PositionSummary, usdcBalance float64)
	TraderSummary(address string, summary PositionSummary)
}

// LogReporter emits the startup summaries as structured log events.
type LogReporter struct {
	logger zerolog.Logger
}

func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) StartupSummary(
	addresses []string, activityCounts, positionCounts map[string]int64,
) {
	var totalActivities, totalPositions int64
	for _, address := range addresses {
		totalActivities += activityCounts[address]
		totalPositions += positionCounts[address]
		r.logger.Info().
			Str("address", utils.RedactAddress(address)).
			Int64("activities", activityCounts[address]).
			Int64("positions", positionCounts[address]).
			Msg("Tracked address summary")
	}

	r.logger.Info().
		Int("addresses", len(addresses)).
		Int64("total_activities", totalActivities).
		Int64("total_positions", totalPositions).
		Msg("Trade monitor starting")
}

func (r *LogReporter) OperatorSummary(
	wallet string, summary PositionSummary, usdcBalance float64,
) {
	event := r.logger.Info().
		Str("wallet", utils.RedactAddress(wallet)).
		Float64("usdc_balance", usdcBalance).
		Int("positions", summary.Count).
		Float64("total_value", summary.TotalValue).
		Float64("overall_pnl", summary.OverallPnl)
	event.Msg("Operator portfolio summary")

	r.logTopPositions(summary.Top)
}

func (r *LogReporter) TraderSummary(address string, summary PositionSummary) {
	r.logger.Info().
		Str("address", utils.RedactAddress(address)).
		Int("positions", summary.Count).
		Float64("total_value", summary.TotalValue).
		Float64("overall_pnl", summary.OverallPnl).
		Msg("Trader portfolio summary")

	r.logTopPositions(summary.Top)
}

func (r *LogReporter) logTopPositions(top []model.PositionDocument) {
	for i, p := range top {
		r.logger.Info().
			Int("rank", i+1).
			Str("title", p.Title).
			Str("outcome", p.Outcome).
			Float64("current_value", p.CurrentValue).
			Float64("percent_pnl", p.PercentPnl).
			Msg("Top position")
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/polycopy/trade-monitor/internal/config"
	"github.com/polycopy/trade-monitor/internal/db"
	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/types"
)

const (
	testTrader1 = "0x56687bf447db6ffa42ffe2204a05edaa20f55839"
	testTrader2 = "0x8a1b2c3d4e5f60718293a4b5c6d7e8f901234567"
	testWallet  = "0xabc1234567890def1234567890abcdef12345678"
)

func testConfig(addresses ...string) *config.Config {
	return &config.Config{
		Monitor: config.MonitorConfig{
			TrackedAddresses:     addresses,
			MaxActivityAge:       24 * time.Hour,
			PositionSyncInterval: time.Minute,
			OperatorWallet:       testWallet,
			TopPositionsOperator: 5,
			TopPositionsTrader:   3,
		},
		Feed: config.FeedConfig{
			URL:                  "wss://example.test/rtds",
			ReconnectDelay:       time.Millisecond,
			MaxReconnectAttempts: 3,
			HandshakeTimeout:     time.Second,
		},
	}
}

func positionKey(doc *model.PositionDocument) string {
	return doc.Asset + "/" + doc.ConditionID
}

// fakeDb is an in-memory DbInterface used across the service tests.
type fakeDb struct {
	mu sync.Mutex

	activities map[string]map[string]*model.ActivityDocument
	positions  map[string]map[string]*model.PositionDocument
	backfill   bool

	saveErr    error
	hasErr     error
	upsertErr  error
	markCalls  map[string]int
	upsertSeen int
}

func newFakeDb() *fakeDb {
	return &fakeDb{
		activities: make(map[string]map[string]*model.ActivityDocument),
		positions:  make(map[string]map[string]*model.PositionDocument),
		markCalls:  make(map[string]int),
	}
}

func (f *fakeDb) Ping(ctx context.Context) error { return nil }

func (f *fakeDb) SaveNewActivity(
	ctx context.Context, address string, doc *model.ActivityDocument,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	byTx, ok := f.activities[address]
	if !ok {
		byTx = make(map[string]*model.ActivityDocument)
		f.activities[address] = byTx
	}
	if _, exists := byTx[doc.TransactionHash]; exists {
		return &db.DuplicateKeyError{
			Key:     doc.TransactionHash,
			Message: "duplicate transaction hash",
		}
	}
	byTx[doc.TransactionHash] = doc
	return nil
}

func (f *fakeDb) HasActivity(ctx context.Context, address, txHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.activities[address][txHash]
	return ok, nil
}

func (f *fakeDb) CountActivities(ctx context.Context, address string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.activities[address])), nil
}

func (f *fakeDb) MarkActivitiesProcessed(ctx context.Context, address string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls[address]++
	var marked int64
	for _, doc := range f.activities[address] {
		if !doc.Processed {
			doc.Processed = true
			doc.ProcessAttempts = model.BackfillAttemptsSentinel
			marked++
		}
	}
	return marked, nil
}

func (f *fakeDb) UpsertPosition(
	ctx context.Context, address string, doc *model.PositionDocument,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertSeen++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	byKey, ok := f.positions[address]
	if !ok {
		byKey = make(map[string]*model.PositionDocument)
		f.positions[address] = byKey
	}
	byKey[positionKey(doc)] = doc
	return nil
}

func (f *fakeDb) GetPositions(
	ctx context.Context, address string,
) ([]model.PositionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PositionDocument, 0, len(f.positions[address]))
	for _, doc := range f.positions[address] {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *fakeDb) CountPositions(ctx context.Context, address string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.positions[address])), nil
}

func (f *fakeDb) GetBackfillCompleted(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backfill, nil
}

func (f *fakeDb) SetBackfillCompleted(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backfill = true
	return nil
}

// fakeDataClient serves canned positions per address.
type fakeDataClient struct {
	mu        sync.Mutex
	positions map[string][]types.PositionSnapshot
	errs      map[string]error
	calls     map[string]int
}

func newFakeDataClient() *fakeDataClient {
	return &fakeDataClient{
		positions: make(map[string][]types.PositionSnapshot),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeDataClient) GetPositions(
	ctx context.Context, address string,
) ([]types.PositionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[address]++
	if err := f.errs[address]; err != nil {
		return nil, err
	}
	return f.positions[address], nil
}

type fakeChainClient struct {
	balance float64
	err     error
}

func (f *fakeChainClient) GetUSDCBalance(ctx context.Context, wallet string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.balance, nil
}

// recordingReporter captures every summary for assertion.
type recordingReporter struct {
	mu sync.Mutex

	startupAddresses []string
	activityCounts   map[string]int64
	positionCounts   map[string]int64

	operatorWallet  string
	operatorSummary PositionSummary
	operatorBalance float64
	operatorCalls   int

	traderSummaries map[string]PositionSummary
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{traderSummaries: make(map[string]PositionSummary)}
}

func (r *recordingReporter) StartupSummary(
	addresses []string, activityCounts, positionCounts map[string]int64,
) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startupAddresses = addresses
	r.activityCounts = activityCounts
	r.positionCounts = positionCounts
}

func (r *recordingReporter) OperatorSummary(
	wallet string, summary PositionSummary, usdcBalance float64,
) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operatorWallet = wallet
	r.operatorSummary = summary
	r.operatorBalance = usdcBalance
	r.operatorCalls++
}

func (r *recordingReporter) TraderSummary(address string, summary PositionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traderSummaries[address] = summary
}

func newTestService(
	cfg *config.Config, database *fakeDb, data *fakeDataClient, chain *fakeChainClient,
) (*Service, *recordingReporter) {
	reporter := newRecordingReporter()
	return NewService(cfg, database, data, chain, reporter), reporter
}

func tradeActivity(txHash string, age time.Duration) *types.TradeActivity {
	return &types.TradeActivity{
		ProxyWallet:     testTrader1,
		Timestamp:       time.Now().Add(-age).Unix(),
		ConditionID:     "condition-1",
		Type:            "TRADE",
		Size:            100,
		Price:           0.5,
		TransactionHash: txHash,
		Asset:           "asset-1",
		Side:            "BUY",
		Outcome:         "Yes",
		Title:           "Test market",
	}
}

func positionSnapshot(asset, conditionID string, value, pnl float64) types.PositionSnapshot {
	return types.PositionSnapshot{
		Asset:        asset,
		ConditionID:  conditionID,
		Size:         value,
		CurrentValue: value,
		InitialValue: value / 2,
		PercentPnl:   pnl,
		Title:        fmt.Sprintf("market %s", conditionID),
	}
}

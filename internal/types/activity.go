package types

import "time"

// msTimestampThreshold separates second-resolution timestamps from
// millisecond ones. The RTDS feed is not consistent about the unit, so any
// raw value above 10^12 is treated as already being in milliseconds.
const msTimestampThreshold = 1_000_000_000_000

// TradeActivity is a single trade event as delivered by the RTDS feed.
type TradeActivity struct {
	ProxyWallet           string  `json:"proxyWallet"`
	Timestamp             int64   `json:"timestamp"`
	ConditionID           string  `json:"conditionId"`
	Type                  string  `json:"type"`
	Size                  float64 `json:"size"`
	Price                 float64 `json:"price"`
	TransactionHash       string  `json:"transactionHash"`
	Asset                 string  `json:"asset"`
	Side                  string  `json:"side"`
	OutcomeIndex          int     `json:"outcomeIndex"`
	Title                 string  `json:"title"`
	Slug                  string  `json:"slug"`
	Icon                  string  `json:"icon"`
	EventSlug             string  `json:"eventSlug"`
	Outcome               string  `json:"outcome"`
	Name                  string  `json:"name"`
	Pseudonym             string  `json:"pseudonym"`
	Bio                   string  `json:"bio"`
	ProfileImage          string  `json:"profileImage"`
	ProfileImageOptimized string  `json:"profileImageOptimized"`
}

// NormalizedTimestamp returns the event timestamp in milliseconds,
// regardless of the unit the feed used.
func (a *TradeActivity) NormalizedTimestamp() int64 {
	if a.Timestamp > msTimestampThreshold {
		return a.Timestamp
	}
	return a.Timestamp * 1000
}

// Age reports how old the event is relative to now.
func (a *TradeActivity) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(a.NormalizedTimestamp()))
}

// USDCSize is the USD-denominated size of the trade.
func (a *TradeActivity) USDCSize() float64 {
	return a.Price * a.Size
}

// FeedMessage is the inbound RTDS envelope. Only messages carrying both an
// activity payload and a source address are of interest; every other shape
// is ignored by the feed client.
type FeedMessage struct {
	Activity *TradeActivity `json:"activity"`
	Address  string         `json:"address"`
}

// SubscribeMessage is sent right after the feed handshake to register
// interest in the tracked addresses.
type SubscribeMessage struct {
	Type      string   `json:"type"`
	Addresses []string `json:"addresses"`
}

const SubscribeMessageType = "SUBSCRIBE"

func NewSubscribeMessage(addresses []string) SubscribeMessage {
	return SubscribeMessage{
		Type:      SubscribeMessageType,
		Addresses: addresses,
	}
}

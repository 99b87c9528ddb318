package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/polycopy/trade-monitor/internal/db/model"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns an error
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

// RandomActivityDocument fills an activity document with fake data. The
// transaction hash is replaced with a unique value and the processing
// fields are reset to their at-ingestion state.
func RandomActivityDocument() (*model.ActivityDocument, error) {
	var doc model.ActivityDocument
	if err := gofakeit.Struct(&doc); err != nil {
		return nil, err
	}

	doc.Type = model.ActivityTypeTrade
	doc.TransactionHash = "0x" + gofakeit.UUID()
	doc.Processed = false
	doc.ProcessAttempts = 0

	return &doc, nil
}

// RandomPositionDocument fills a position document with fake data keyed by
// random asset and condition identifiers.
func RandomPositionDocument() (*model.PositionDocument, error) {
	var doc model.PositionDocument
	if err := gofakeit.Struct(&doc); err != nil {
		return nil, err
	}

	doc.Asset = gofakeit.UUID()
	doc.ConditionID = "0x" + gofakeit.UUID()

	return &doc, nil
}

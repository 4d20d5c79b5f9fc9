package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxTermMonths   = 600 // 50 years
	MaxInterestRate = 1000.0

	daysPerAccountMonth = 30
	accountMonth        = daysPerAccountMonth * 24 * time.Hour

	// Chat turns without a stated term fall back to a year.
	DefaultTermMonths = 12
	DefaultPurpose    = "personal use"

	MaxConfidence = 100
)

var (
	// Ceiling tier thresholds and caps, in the account currency.
	newAccountMonths         = 3
	establishingMonths       = 6
	highIncomeThreshold      = decimal.NewFromInt(100_000)
	newLowIncomeCeiling      = decimal.NewFromInt(50_000)
	newHighIncomeBalanceRate = decimal.RequireFromString("0.8")
	newHighIncomeCap         = decimal.NewFromInt(200_000)
	establishingBalanceRate  = decimal.RequireFromString("1.2")
	establishingCap          = decimal.NewFromInt(500_000)
	establishedBalanceRate   = decimal.NewFromInt(2)
	establishedCap           = decimal.NewFromInt(5_000_000)

	// Net cash flow must cover the monthly payment this many times over.
	debtServiceCoverage = decimal.RequireFromString("1.5")

	maxInterestRate = decimal.NewFromFloat(MaxInterestRate)
)

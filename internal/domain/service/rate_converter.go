package service

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MonthlyEffectiveRate converts an annual effective rate expressed as a
// percentage (59.60 means 59.60%) into the equivalent monthly effective rate:
//
//	tem = (1 + tea/100)^(1/12) - 1
//
// The fractional root is taken in float64 and the result is carried as a
// decimal from there on.
func MonthlyEffectiveRate(annualPct decimal.Decimal) decimal.Decimal {
	if annualPct.IsZero() {
		return decimal.Zero
	}
	annual := annualPct.Div(hundred).InexactFloat64()
	monthly := math.Pow(1+annual, 1.0/12.0) - 1
	return decimal.NewFromFloat(monthly)
}

// MonthlyRateWithInsurance returns the monthly effective rate plus the
// product's insurance loading (TCEM).
func MonthlyRateWithInsurance(annualPct, insuranceLoading decimal.Decimal) decimal.Decimal {
	return MonthlyEffectiveRate(annualPct).Add(insuranceLoading)
}

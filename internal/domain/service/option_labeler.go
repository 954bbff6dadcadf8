package service

import (
	"fmt"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// OptionLabeler renders the display text shown next to each option.
type OptionLabeler struct {
	currency money.Currency
	scale    int32
}

// NewOptionLabeler returns a labeler printing amounts in currency at scale places.
func NewOptionLabeler(currency money.Currency, scale int32) OptionLabeler {
	return OptionLabeler{currency: currency, scale: scale}
}

// Label returns e.g. "18 cuotas de S/ 1054" or "6 cuotas sin intereses de S/ 1025".
func (l OptionLabeler) Label(o model.InstallmentOption) string {
	amount := money.New(o.MonthlyPayment, l.currency).Display(l.scale)
	noun := "cuotas"
	if o.TermMonths == 1 {
		noun = "cuota"
	}
	if o.IsCampaign {
		return fmt.Sprintf("%d %s sin intereses de %s", o.TermMonths, noun, amount)
	}
	return fmt.Sprintf("%d %s de %s", o.TermMonths, noun, amount)
}

func (l OptionLabeler) apply(o model.InstallmentOption) model.InstallmentOption {
	o.Label = l.Label(o)
	return o
}

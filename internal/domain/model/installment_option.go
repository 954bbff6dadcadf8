package model

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
)

// InstallmentOption is one monthly-payment plan offered to the applicant.
// TotalPayment always equals MonthlyPayment * TermMonths.
type InstallmentOption struct {
	TermMonths          int
	MonthlyPayment      decimal.Decimal
	TotalPayment        decimal.Decimal
	AnnualEffectiveRate decimal.Decimal
	IsCampaign          bool
	Selected            bool
	Label               string

	// ReferenceAmount and BasePayment describe the option at the maximum
	// approved amount. The recalculator derives them from the pre-approval
	// and they are never read from a caller.
	ReferenceAmount decimal.Decimal
	BasePayment     decimal.Decimal
}

// Key returns the identity of the option.
func (o InstallmentOption) Key() valueobject.OptionKey {
	return valueobject.NewOptionKey(o.TermMonths, o.IsCampaign)
}

// WithPayment returns a copy carrying monthly and the matching total.
func (o InstallmentOption) WithPayment(monthly decimal.Decimal) InstallmentOption {
	next := o
	next.MonthlyPayment = monthly
	next.TotalPayment = monthly.Mul(decimal.NewFromInt(int64(o.TermMonths)))
	return next
}

// optionLess orders campaign options before regular ones and, within each
// group, longer terms first.
func optionLess(a, b InstallmentOption) bool {
	if a.IsCampaign != b.IsCampaign {
		return a.IsCampaign
	}
	return a.TermMonths > b.TermMonths
}

// SortOptions returns a sorted copy of opts.
func SortOptions(opts []InstallmentOption) []InstallmentOption {
	out := copyOptions(opts)
	sort.SliceStable(out, func(i, j int) bool { return optionLess(out[i], out[j]) })
	return out
}

// SelectOption returns a copy of opts with only the option matching key
// selected. ok is false when no option matches; opts is then returned unchanged.
func SelectOption(opts []InstallmentOption, key valueobject.OptionKey) (out []InstallmentOption, ok bool) {
	idx := -1
	for i, o := range opts {
		if o.Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return copyOptions(opts), false
	}
	out = copyOptions(opts)
	for i := range out {
		out[i].Selected = i == idx
	}
	return out, true
}

// selectFirst marks the first option selected and clears the rest.
func selectFirst(opts []InstallmentOption) []InstallmentOption {
	out := copyOptions(opts)
	for i := range out {
		out[i].Selected = i == 0
	}
	return out
}

// DefaultSelection sorts opts and selects the first one.
func DefaultSelection(opts []InstallmentOption) []InstallmentOption {
	return selectFirst(SortOptions(opts))
}

func selectedKey(opts []InstallmentOption) (valueobject.OptionKey, bool) {
	for _, o := range opts {
		if o.Selected {
			return o.Key(), true
		}
	}
	return valueobject.OptionKey{}, false
}

func copyOptions(src []InstallmentOption) []InstallmentOption {
	if src == nil {
		return nil
	}
	dst := make([]InstallmentOption, len(src))
	copy(dst, src)
	return dst
}

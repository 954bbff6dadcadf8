package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreApproval_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PreApproval)
	}{
		{"non-positive max", func(p *PreApproval) { p.MaxApprovedAmount = d("0") }},
		{"negative rate", func(p *PreApproval) { p.RateProfile.AnnualEffectiveRate = d("-1") }},
		{"duplicate term", func(p *PreApproval) {
			p.RegularTermAmounts = append(p.RegularTermAmounts, TermAmount{TermMonths: 12, Amount: d("1")})
		}},
		{"zero campaign amount", func(p *PreApproval) { p.CampaignTermAmounts[0].Amount = d("0") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := testPreApproval()
			pa.CampaignTermAmounts = append([]TermAmount(nil), pa.CampaignTermAmounts...)
			tt.mutate(&pa)
			assert.ErrorIs(t, pa.Validate(), ErrInvalidArgument)
		})
	}

	assert.NoError(t, testPreApproval().Validate())
}

func TestPreApproval_ReferenceAmount(t *testing.T) {
	pa := testPreApproval()

	amt, ok := pa.ReferenceAmount(18, false)
	assert.True(t, ok)
	assert.True(t, amt.Equal(d("12189.20")))

	amt, ok = pa.ReferenceAmount(6, true)
	assert.True(t, ok)
	assert.True(t, amt.Equal(d("6144.73")))

	_, ok = pa.ReferenceAmount(6, false)
	assert.False(t, ok)

	pa.HasCampaign = false
	_, ok = pa.ReferenceAmount(6, true)
	assert.False(t, ok)
}

func TestDecodeError(t *testing.T) {
	cause := fmt.Errorf("bad key %q", "xQuotas")
	err := fmt.Errorf("decode: %w", NewDecodeError("regularTermAmounts", cause))

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Contains(t, err.Error(), "regularTermAmounts")

	var derr *DecodeError
	assert.True(t, errors.As(err, &derr))
	assert.Equal(t, "regularTermAmounts", derr.Field)
	assert.False(t, IsValidation(err))
}

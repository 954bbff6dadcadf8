package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

func optionKeys(opts []model.InstallmentOption) []valueobject.OptionKey {
	keys := make([]valueobject.OptionKey, len(opts))
	for i, o := range opts {
		keys[i] = o.Key()
	}
	return keys
}

func TestOptionSetBuilder_Build(t *testing.T) {
	opts, err := newTestBuilder().Build(referencePreApproval())
	require.NoError(t, err)
	require.Len(t, opts, 8)

	t.Run("campaign first then descending term", func(t *testing.T) {
		assert.Equal(t, []valueobject.OptionKey{
			{TermMonths: 12, Campaign: true},
			{TermMonths: 6, Campaign: true},
			{TermMonths: 3, Campaign: true},
			{TermMonths: 18},
			{TermMonths: 16},
			{TermMonths: 14},
			{TermMonths: 12},
			{TermMonths: 6},
		}, optionKeys(opts))
	})

	t.Run("first option selected", func(t *testing.T) {
		selected := 0
		for _, o := range opts {
			if o.Selected {
				selected++
			}
		}
		assert.Equal(t, 1, selected)
		assert.True(t, opts[0].Selected)
	})

	t.Run("payments and labels", func(t *testing.T) {
		byKey := make(map[valueobject.OptionKey]model.InstallmentOption)
		for _, o := range opts {
			byKey[o.Key()] = o
		}

		reg18 := byKey[valueobject.NewOptionKey(18, false)]
		assert.True(t, reg18.MonthlyPayment.Equal(d("1054")))
		assert.True(t, reg18.TotalPayment.Equal(d("18972")))
		assert.True(t, reg18.AnnualEffectiveRate.Equal(d("59.60")))
		assert.Equal(t, "18 cuotas de S/ 1054", reg18.Label)

		camp6 := byKey[valueobject.NewOptionKey(6, true)]
		assert.True(t, camp6.MonthlyPayment.Equal(d("1025")))
		assert.True(t, camp6.TotalPayment.Equal(d("6150")))
		assert.True(t, camp6.AnnualEffectiveRate.IsZero())
		assert.Equal(t, "6 cuotas sin intereses de S/ 1025", camp6.Label)
	})

	t.Run("basis recorded", func(t *testing.T) {
		for _, o := range opts {
			assert.True(t, o.BasePayment.Equal(o.MonthlyPayment), o.Key().String())
			assert.True(t, o.ReferenceAmount.IsPositive(), o.Key().String())
		}
	})
}

func TestOptionSetBuilder_InactiveCampaign(t *testing.T) {
	pa := referencePreApproval()
	pa.HasCampaign = false

	opts, err := newTestBuilder().Build(pa)
	require.NoError(t, err)
	require.Len(t, opts, 5)
	for _, o := range opts {
		assert.False(t, o.IsCampaign)
	}
	assert.Equal(t, valueobject.NewOptionKey(18, false), opts[0].Key())
}

func TestOptionSetBuilder_RejectsInvalidPreApproval(t *testing.T) {
	pa := referencePreApproval()
	pa.RegularTermAmounts = append(pa.RegularTermAmounts, model.TermAmount{TermMonths: 0, Amount: d("100")})

	_, err := newTestBuilder().Build(pa)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestOptionLabeler_Label(t *testing.T) {
	labeler := NewOptionLabeler(money.PEN, 2)

	assert.Equal(t, "18 cuotas de S/ 1053.71",
		labeler.Label(model.InstallmentOption{TermMonths: 18, MonthlyPayment: d("1053.71")}))
	assert.Equal(t, "1 cuota sin intereses de S/ 500.00",
		labeler.Label(model.InstallmentOption{TermMonths: 1, MonthlyPayment: d("500"), IsCampaign: true}))
}

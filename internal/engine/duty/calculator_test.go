package duty

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/refdata"
)

type fixedRates struct {
	rate float64
	err  error
}

func (f fixedRates) Rate(ctx context.Context, curUnit string, scenario model.Scenario) (float64, error) {
	return f.rate, f.err
}

func newCalculator(t *testing.T, rates RateSource) *Calculator {
	t.Helper()
	return NewCalculator(refdata.MustLoad(), rates)
}

func TestComputeDirectPurchaseWithDutyAndVAT(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	// 중국 matches no FTA row for sneakers, so the WTO 13% rate applies
	result, err := calc.Compute(context.Background(), Input{
		HS10Code:      "6404111000",
		Value:         100000,
		OriginCountry: "중국",
		Quantity:      2,
		ShippingCost:  10000,
		Scenario:      model.ScenarioOverseasDirect,
	})

	require.NoError(t, err)
	base := decimal.NewFromInt(210000)
	wantDuty := base.Mul(decimal.NewFromInt(13)).Div(decimal.NewFromInt(100))
	wantVAT := base.Add(wantDuty).Mul(decimal.RequireFromString("0.1"))

	assert.True(t, result.TaxableBase.Equal(base), "base %s", result.TaxableBase)
	assert.True(t, result.Duty.Equal(wantDuty), "duty %s", result.Duty)
	assert.True(t, result.VAT.Equal(wantVAT), "vat %s", result.VAT)
	assert.True(t, result.TotalTax.Equal(wantDuty.Add(wantVAT)))
	assert.False(t, result.FTAApplied)
	assert.Contains(t, result.RuleNote, "WTO 회원국")
}

func TestComputeFTAZeroRateNoVAT(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	result, err := calc.Compute(context.Background(), Input{
		HS10Code:      "8471300000",
		Value:         1500000,
		OriginCountry: "미국",
		Quantity:      1,
		Scenario:      model.ScenarioOverseasDirect,
	})

	require.NoError(t, err)
	assert.True(t, result.Duty.IsZero())
	// VAT only applies when duty was actually levied
	assert.True(t, result.VAT.IsZero())
	assert.True(t, result.FTAApplied)
	assert.Contains(t, result.RuleNote, "미국")
}

func TestComputeShippedFromAbroadAlwaysZeroDuty(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	result, err := calc.Compute(context.Background(), Input{
		HS10Code:      "6404111000",
		Value:         99000000,
		OriginCountry: "중국",
		Quantity:      3,
		Scenario:      model.ScenarioShippedFromAbroad,
	})

	require.NoError(t, err)
	assert.True(t, result.Duty.IsZero())
	assert.True(t, result.VAT.IsZero())
	assert.True(t, result.TotalTax.IsZero())
}

func TestComputeTravelPurchaseExemptionThreshold(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	// 600 USD * 1300 = 780,000원 is exactly the exemption boundary
	below, err := calc.Compute(context.Background(), Input{
		HS10Code:      "6404111000",
		Value:         780000,
		OriginCountry: "중국",
		Quantity:      1,
		Scenario:      model.ScenarioPurchasedAbroad,
	})
	require.NoError(t, err)
	assert.True(t, below.FullyExempt)
	assert.True(t, below.Duty.IsZero())

	above, err := calc.Compute(context.Background(), Input{
		HS10Code:      "6404111000",
		Value:         780001,
		OriginCountry: "중국",
		Quantity:      1,
		Scenario:      model.ScenarioPurchasedAbroad,
	})
	require.NoError(t, err)
	assert.False(t, above.FullyExempt)
	wantDuty := decimal.NewFromInt(780001).Mul(decimal.NewFromInt(13)).Div(decimal.NewFromInt(100))
	assert.True(t, above.Duty.Equal(wantDuty), "duty %s", above.Duty)
	// travel purchases never carry VAT
	assert.True(t, above.VAT.IsZero())
}

func TestComputeDefaultsBlankCountry(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	result, err := calc.Compute(context.Background(), Input{
		HS10Code: "8471300000",
		Value:    1000000,
		Quantity: 1,
		Scenario: model.ScenarioOverseasDirect,
	})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultCountry, result.OriginCountry)
}

func TestComputeUnknownCodeFails(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	_, err := calc.Compute(context.Background(), Input{
		HS10Code:      "9999999999",
		Value:         10000,
		OriginCountry: "미국",
		Quantity:      1,
		Scenario:      model.ScenarioOverseasDirect,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "관세율 조회 실패")
}

func TestComputeUnknownCountryCurrencyFails(t *testing.T) {
	calc := newCalculator(t, fixedRates{rate: 1300})

	_, err := calc.Compute(context.Background(), Input{
		HS10Code:      "8471300000",
		Value:         10000,
		OriginCountry: "화성",
		Quantity:      1,
		Scenario:      model.ScenarioOverseasDirect,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "환율 정보를 찾을 수 없습니다")
}

func TestComputeRateServiceFailureFallsBack(t *testing.T) {
	calc := newCalculator(t, fixedRates{err: errors.New("service down")})

	// static USD fallback is 1300, so the boundary math matches the live-rate case
	result, err := calc.Compute(context.Background(), Input{
		HS10Code:      "6404111000",
		Value:         780000,
		OriginCountry: "미국",
		Quantity:      1,
		Scenario:      model.ScenarioPurchasedAbroad,
	})

	require.NoError(t, err)
	assert.True(t, result.FullyExempt)
}

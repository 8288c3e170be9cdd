package duty

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/fx"
	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/refdata"
	logx "github.com/customsbot-poc/server/pkg/logger"
	"github.com/shopspring/decimal"
)

// PersonalExemptionLimit is the travel-purchase personal exemption threshold,
// compared in the origin currency after same-day conversion.
const PersonalExemptionLimit = 600

const vatRate = "0.1"

// RateSource abstracts the exchange-rate capability so the calculator can be
// tested without the live service.
type RateSource interface {
	Rate(ctx context.Context, curUnit string, scenario model.Scenario) (float64, error)
}

// Calculator computes duty, VAT and totals for a finalised classification.
type Calculator struct {
	store *refdata.Store
	rates RateSource
}

func NewCalculator(store *refdata.Store, rates RateSource) *Calculator {
	return &Calculator{store: store, rates: rates}
}

// Input carries every field the calculation needs. Value is the unit price
// already normalised to the local currency.
type Input struct {
	HS10Code      string
	Value         float64
	OriginCountry string
	Quantity      int
	ShippingCost  float64
	Scenario      model.Scenario
}

// Compute resolves the duty rule through the priority cascade, converts via
// the same-day rate (static table, then hard default, when the service
// fails), applies scenario exemptions, and returns the structured result.
// Errors carry a user-presentable Korean message; they never corrupt session
// state because the caller resets the session either way.
func (c *Calculator) Compute(ctx context.Context, in Input) (*model.DutyResult, error) {
	country := in.OriginCountry
	if country == "" {
		country = model.DefaultCountry
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = model.DefaultQuantity
	}

	rule, note, err := c.store.ResolveDutyRule(in.HS10Code, country)
	if err != nil {
		if errors.Is(err, errx.ErrNoDutyRule) {
			return nil, errx.New(err, http.StatusNotFound,
				fmt.Sprintf("관세율 조회 실패: HS Code '%s'에 대한 적용 가능한 관세 규칙을 찾을 수 없습니다.", refdata.NormalizeHS10(in.HS10Code)))
		}
		return nil, errx.New(err, http.StatusInternalServerError, "관세율 조회 중 오류가 발생했습니다.")
	}

	curUnit, err := c.store.CurrencyFor(country)
	if err != nil {
		return nil, errx.New(err, http.StatusNotFound,
			fmt.Sprintf("환율 정보를 찾을 수 없습니다. 국가: %s", country))
	}
	rate := c.resolveRate(ctx, curUnit, in.Scenario)

	value := decimal.NewFromFloat(in.Value)
	shipping := decimal.NewFromFloat(in.ShippingCost)
	base := value.Mul(decimal.NewFromInt(int64(quantity))).Add(shipping)
	dutyRate := decimal.NewFromFloat(rule.Rate)

	result := &model.DutyResult{
		HSCode:        refdata.NormalizeHS10(in.HS10Code),
		OriginCountry: country,
		UnitPrice:     value,
		Quantity:      quantity,
		ShippingCost:  shipping,
		TaxableBase:   base,
		Rate:          dutyRate,
		Duty:          decimal.Zero,
		VAT:           decimal.Zero,
		Category:      rule.Category,
		FTAApplied:    rule.FTAApplied(),
		RuleNote:      note,
	}

	fxRate := decimal.NewFromFloat(rate)
	switch in.Scenario {
	case model.ScenarioPurchasedAbroad:
		baseForeign := base.Div(fxRate)
		if baseForeign.LessThanOrEqual(decimal.NewFromInt(PersonalExemptionLimit)) {
			result.FullyExempt = true
		} else {
			result.Duty = base.Mul(dutyRate).Div(decimal.NewFromInt(100))
		}
	case model.ScenarioShippedFromAbroad:
		// shipment channel bypasses duty regardless of value
	default:
		result.Duty = base.Mul(dutyRate).Div(decimal.NewFromInt(100))
	}

	// VAT only applies to the direct-purchase channel, and only when duty
	// was actually levied.
	if in.Scenario == model.ScenarioOverseasDirect && result.Duty.IsPositive() {
		result.VAT = base.Add(result.Duty).Mul(decimal.RequireFromString(vatRate))
	}
	result.TotalTax = result.Duty.Add(result.VAT)

	logx.Debug().
		Str("hs_code", result.HSCode).
		Str("origin", country).
		Str("duty", result.Duty.StringFixed(0)).
		Str("vat", result.VAT.StringFixed(0)).
		Bool("fta", result.FTAApplied).
		Msg("duty computed")
	return result, nil
}

// resolveRate applies the documented fallback chain: live service, static
// table, hard default. It never fails.
func (c *Calculator) resolveRate(ctx context.Context, curUnit string, scenario model.Scenario) float64 {
	rate, err := c.rates.Rate(ctx, curUnit, scenario)
	if err == nil && rate > 0 {
		return rate
	}
	if err != nil {
		logx.Warn().Err(err).Str("cur_unit", curUnit).Msg("rate service unavailable, using static fallback")
	}
	if fallback, ok := c.store.FallbackRate(curUnit); ok {
		return fallback
	}
	return fx.DefaultRate
}

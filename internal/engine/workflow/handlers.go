package workflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/duty"
	"github.com/customsbot-poc/server/internal/engine/format"
	"github.com/customsbot-poc/server/internal/engine/fx"
	"github.com/customsbot-poc/server/internal/engine/model"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

var numberPattern = regexp.MustCompile(`[0-9]+`)

// handleScenarioSelection attempts automatic channel detection and advances
// to input collection either way: an undetected scenario degrades to an
// unscoped product prompt, never a block.
func (e *Engine) handleScenarioSelection(ctx context.Context, st *model.TariffState, current string) string {
	if s := e.detectScenario(ctx, current); s != "" {
		st.Scenario = s
	}
	st.CurrentStep = model.StepInputCollection
	st.SessionActive = true
	return st.Record(msgInputCollectionPrompt)
}

// handleInputCollection extracts slots from the utterance (folding in prior
// context and earlier partial turns), re-prompts while required slots are
// missing, then normalises the price and runs HS6 classification.
func (e *Engine) handleInputCollection(ctx context.Context, st *model.TariffState, current, priorContext string) string {
	if st.Scenario == "" {
		if s := e.detectScenario(ctx, current); s != "" {
			st.Scenario = s
		}
	}

	enhanced := current
	if priorContext != "" {
		if info := extractPriorInfo(priorContext); info != (priorInfo{}) {
			enhanced = mergeWithCurrent(info, current)
		}
	}

	sl := e.extractor.Extract(ctx, enhanced)
	sl = sl.Merge(st.CapturedSlots())

	if missing := sl.Missing(); len(missing) > 0 {
		st.ApplySlots(sl)
		return st.Record(missingInfoPrompt(sl, missing))
	}

	price := *sl.Price
	unit := sl.PriceUnit
	if unit == "" {
		unit = model.LocalCurrencyUnit
	}
	originalPrice, originalUnit := price, unit
	if unit != model.LocalCurrencyUnit {
		price = e.toLocalCurrency(ctx, price, unit, st.Scenario)
		unit = model.LocalCurrencyUnit
	}

	st.ApplySlots(sl)
	st.Price = price
	st.PriceUnit = unit
	st.Quantity = sl.QuantityOrDefault()
	st.ShippingCost = sl.ShippingOrDefault()

	cands, err := e.classifier.Classify6(ctx, st.ProductName)
	if err != nil {
		logx.Warn().Err(err).Str("product", st.ProductName).Msg("HS6 classification failed")
		return st.Record(msgPredictionFailed)
	}
	if len(cands) == 0 {
		return st.Record(msgPredictionFailed)
	}

	st.HS6Candidates = cands
	st.CurrentStep = model.StepHS6Selection

	var b strings.Builder
	if st.Scenario != "" {
		fmt.Fprintf(&b, "%s %s\n\n", josaEuro(string(st.Scenario)), msgScenarioGuidePrefix)
	}
	fmt.Fprintf(&b, "상품묘사: %s\n국가: %s\n가격: %s\n수량: %d개\n\n",
		st.ProductName, st.Country, priceDisplay(originalPrice, originalUnit, price), st.Quantity)
	b.WriteString(candidateListHS6(msgHS6CandidatesHeader, cands))
	return st.Record(b.String())
}

// handleHS6Selection narrows a numeric choice to one six-digit code and
// expands it to ten-digit candidates. Non-numeric input goes through the
// reclassification-intent judgment.
func (e *Engine) handleHS6Selection(ctx context.Context, st *model.TariffState, current string) string {
	m := numberPattern.FindString(current)
	if m == "" || len(st.HS6Candidates) == 0 {
		if e.classifier.IsReclassificationIntent(ctx, current) {
			return e.performReclassification(ctx, st, current)
		}
		return st.Record(candidateListHS6(msgHS6CandidatesHeader, st.HS6Candidates))
	}

	sel, err := strconv.Atoi(m)
	if err != nil || sel < 1 || sel > len(st.HS6Candidates) {
		return st.Record(msgInvalidNumber + "\n\n" + candidateListHS6(msgHS6CandidatesHeader, st.HS6Candidates))
	}

	selected := st.HS6Candidates[sel-1]
	st.HS6Code = selected.Code

	cands10 := e.classifier.Expand10(selected.Code)
	if len(cands10) == 0 {
		return st.Record(msgNoHS10Candidates)
	}
	st.HS10Candidates = cands10
	st.CurrentStep = model.StepHS10Selection

	return st.Record(fmt.Sprintf("%s %s\n\n%s", msgHS6Selected, selected.Code, candidateListHS10(cands10)))
}

// handleHS10Selection finalises the classification, runs the calculation and
// unconditionally resets the session — success and failure alike.
func (e *Engine) handleHS10Selection(ctx context.Context, st *model.TariffState, current string) string {
	m := numberPattern.FindString(current)
	if m == "" || len(st.HS10Candidates) == 0 {
		return st.Record(msgHS10NumberOnly + "\n" + msgNumberExample)
	}
	sel, err := strconv.Atoi(m)
	if err != nil || sel < 1 || sel > len(st.HS10Candidates) {
		return st.Record(msgInvalidNumber + "\n\n" + msgHS10NumberOnly + "\n" + msgNumberExample)
	}

	st.HS10Code = st.HS10Candidates[sel-1].Code
	if !st.ReadyForCalculation() {
		st.Reset()
		return st.Record(msgUnrecognizedState)
	}

	result, err := e.calculator.Compute(ctx, duty.Input{
		HS10Code:      st.HS10Code,
		Value:         st.Price,
		OriginCountry: st.Country,
		Quantity:      st.Quantity,
		ShippingCost:  st.ShippingCost,
		Scenario:      st.Scenario,
	})

	var reply string
	if err != nil {
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			reply = appErr.Message
		} else {
			reply = format.Raw(err.Error())
		}
	} else {
		reply = format.DutyResult(result)
	}

	// one-shot per estimation
	st.Reset()
	return st.Record(reply)
}

// performReclassification re-predicts the HS6 candidate list from the stored
// product name plus the user's rejection feedback.
func (e *Engine) performReclassification(ctx context.Context, st *model.TariffState, current string) string {
	if st.ProductName == "" {
		return st.Record(msgNoProductName)
	}
	cands, err := e.classifier.Reclassify6(ctx, st.ProductName, current)
	if err != nil || len(cands) == 0 {
		if err != nil {
			logx.Warn().Err(err).Str("product", st.ProductName).Msg("HS6 reclassification failed")
		}
		return st.Record(msgRepredictionFailed)
	}
	st.HS6Candidates = cands
	return st.Record(candidateListHS6(msgHS6RepredictionHeader, cands))
}

// toLocalCurrency converts a foreign-denominated price: live rate first,
// then the static table, then the hard default. Never fails.
func (e *Engine) toLocalCurrency(ctx context.Context, price float64, unitWord string, scenario model.Scenario) float64 {
	unitCode, ok := e.store.UnitForWord(unitWord)
	if ok && e.rates != nil {
		if rate, err := e.rates.Rate(ctx, unitCode, scenario); err == nil && rate > 0 {
			return price * rate
		} else if err != nil {
			logx.Warn().Err(err).Str("unit", unitWord).Msg("rate service unavailable, using static fallback")
		}
	}
	if rate, ok := e.store.FallbackRateForWord(unitWord); ok {
		return price * rate
	}
	return price * fx.DefaultRate
}

func missingInfoPrompt(sl model.Slots, missing []string) string {
	var lines []string
	if sl.ProductName != "" {
		lines = append(lines, "상품명: "+sl.ProductName)
	}
	if sl.Country != "" {
		lines = append(lines, "구매 국가: "+sl.Country)
	}
	if sl.Price != nil && *sl.Price > 0 {
		unit := sl.PriceUnit
		if unit == "" || unit == model.LocalCurrencyUnit {
			lines = append(lines, "상품 가격: "+format.Won(*sl.Price))
		} else {
			lines = append(lines, fmt.Sprintf("상품 가격: %.0f %s", *sl.Price, unit))
		}
	}
	if sl.Quantity != nil && *sl.Quantity > 0 {
		lines = append(lines, fmt.Sprintf("수량: %d개", *sl.Quantity))
	}

	var b strings.Builder
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s %s\n%s", msgMissingInfoPrompt, strings.Join(missing, ", "), msgProductInfoExample)
	return b.String()
}

// priceDisplay echoes the foreign amount alongside the converted figure when
// conversion happened.
func priceDisplay(originalPrice float64, originalUnit string, localPrice float64) string {
	if originalUnit != model.LocalCurrencyUnit {
		return fmt.Sprintf("%.0f %s (%s)", originalPrice, originalUnit, format.Won(localPrice))
	}
	return format.Won(localPrice)
}

func candidateListHS6(header string, cands []model.Candidate) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for i, c := range cands {
		fmt.Fprintf(&b, "%d. %s (%s %.1f%%)\n", i+1, c.Description, msgHS6Confidence, c.Confidence*100)
	}
	fmt.Fprintf(&b, "\n%s\n%s\n%s", msgSelectCandidate, msgNumberExample, msgRepredictionHint)
	return b.String()
}

func candidateListHS10(cands []model.Candidate) string {
	var b strings.Builder
	b.WriteString(msgHS10CandidatesHeader + "\n")
	for i, c := range cands {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, c.Code, c.Description)
	}
	fmt.Fprintf(&b, "\n%s\n%s", msgSelectCandidate, msgNumberExample)
	return b.String()
}

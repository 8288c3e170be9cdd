package hscode

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/prompts"
	"github.com/customsbot-poc/server/internal/engine/refdata"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// maxCandidates caps how many ranked codes one prediction may yield.
const maxCandidates = 3

// candidateLine matches one ranked prediction line, e.g.
// "1. 8471.30.00 (확률: 85%)" or "2. 851712 (확률: 12.3%)".
var candidateLine = regexp.MustCompile(`(\d+)\.\s*([0-9][0-9.]{3,})\s*\(확률:\s*([\d.]+)%\)`)

// Classifier drives commodity-code prediction: ranked six-digit candidates
// from the model, ten-digit expansion from the tariff schedule, and the
// reclassification loop when the user rejects the candidate list.
type Classifier struct {
	predictor model.CodePredictor
	oracle    model.Oracle
	store     *refdata.Store
}

func NewClassifier(predictor model.CodePredictor, oracle model.Oracle, store *refdata.Store) *Classifier {
	return &Classifier{predictor: predictor, oracle: oracle, store: store}
}

// Classify6 predicts ranked six-digit candidates for a product description.
// An empty list with a nil error means the model answered but nothing
// parseable came back; the caller treats both outcomes as prediction failure.
func (c *Classifier) Classify6(ctx context.Context, description string) ([]model.Candidate, error) {
	raw, err := c.predictor.PredictCommodityCodes(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("HS6 분류 요청 실패: %w", err)
	}
	cands := ParseCandidates(raw)
	logx.Debug().Int("candidates", len(cands)).Str("description", description).Msg("HS6 classification")
	return cands, nil
}

// Reclassify6 re-predicts with the user's feedback about the rejected list.
func (c *Classifier) Reclassify6(ctx context.Context, productName, feedback string) ([]model.Candidate, error) {
	raw, err := c.oracle.Complete(ctx, prompts.ReclassifyCodes(productName, feedback))
	if err != nil {
		return nil, fmt.Errorf("HS6 재분류 요청 실패: %w", err)
	}
	return ParseCandidates(raw), nil
}

// Expand10 lists the ten-digit tariff lines under a six-digit prefix.
func (c *Classifier) Expand10(hs6 string) []model.Candidate {
	return c.store.Expand10(hs6)
}

// IsReclassificationIntent judges whether a non-numeric reply during
// candidate selection means "these codes are wrong, predict again". A failed
// judgment degrades to no, which re-shows the selection guide.
func (c *Classifier) IsReclassificationIntent(ctx context.Context, utterance string) bool {
	reply, err := c.oracle.Complete(ctx, prompts.CorrectionIntent(utterance))
	if err != nil {
		logx.Warn().Err(err).Msg("reclassification intent judgment failed")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "네", "yes", "true", "1":
		return true
	}
	return false
}

// ParseCandidates extracts ranked (code, confidence) pairs from the model's
// listing. Codes are normalised to their six-digit form; lines that do not
// match the expected shape are skipped. No placeholder candidates are ever
// fabricated for an unparseable reply.
func ParseCandidates(raw string) []model.Candidate {
	var out []model.Candidate
	for _, line := range strings.Split(raw, "\n") {
		m := candidateLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		conf, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		code := refdata.NormalizeHS6(m[2])
		if seen(out, code) {
			continue
		}
		out = append(out, model.Candidate{
			Code:        code,
			Description: fmt.Sprintf("HS6 코드 %s", code),
			Confidence:  conf / 100,
			FullCode:    strings.TrimSpace(m[2]),
		})
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

func seen(cands []model.Candidate, code string) bool {
	for _, c := range cands {
		if c.Code == code {
			return true
		}
	}
	return false
}

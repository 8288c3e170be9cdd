package hscode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customsbot-poc/server/internal/engine/refdata"
)

type stubPredictor struct {
	reply string
	err   error
}

func (s *stubPredictor) PredictCommodityCodes(ctx context.Context, description string) (string, error) {
	return s.reply, s.err
}

type stubOracle struct {
	reply string
	err   error
}

func (s *stubOracle) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestParseCandidatesDottedForm(t *testing.T) {
	raw := "1. 8471.30.00 (확률: 85%)\n2. 8471.41.00 (확률: 10%)\n3. 8471.49.00 (확률: 5%)"

	got := ParseCandidates(raw)

	require.Len(t, got, 3)
	assert.Equal(t, "847130", got[0].Code)
	assert.Equal(t, "8471.30.00", got[0].FullCode)
	assert.InDelta(t, 0.85, got[0].Confidence, 1e-9)
	assert.Equal(t, "847141", got[1].Code)
	assert.Equal(t, "847149", got[2].Code)
}

func TestParseCandidatesBareSixDigits(t *testing.T) {
	raw := "1. 851770 (확률: 85.5%)\n2. 851712 (확률: 12.3%)\n3. 851713 (확률: 2.2%)"

	got := ParseCandidates(raw)

	require.Len(t, got, 3)
	assert.Equal(t, "851770", got[0].Code)
	assert.InDelta(t, 0.855, got[0].Confidence, 1e-9)
	assert.InDelta(t, 0.123, got[1].Confidence, 1e-9)
}

func TestParseCandidatesSkipsNoise(t *testing.T) {
	raw := "예측 결과는 다음과 같습니다.\n1. 8517.12.00 (확률: 90%)\n추가 설명이 필요하면 말씀해 주세요."

	got := ParseCandidates(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "851712", got[0].Code)
}

func TestParseCandidatesUnparseableReturnsNothing(t *testing.T) {
	got := ParseCandidates("해당 상품의 HS 코드를 알 수 없습니다.")

	assert.Empty(t, got)
}

func TestParseCandidatesDeduplicatesAndCaps(t *testing.T) {
	raw := "1. 851770 (확률: 50%)\n2. 8517.70.00 (확률: 30%)\n3. 851712 (확률: 10%)\n4. 851713 (확률: 5%)\n5. 851718 (확률: 3%)"

	got := ParseCandidates(raw)

	require.Len(t, got, 3)
	assert.Equal(t, "851770", got[0].Code)
	assert.Equal(t, "851712", got[1].Code)
	assert.Equal(t, "851713", got[2].Code)
}

func TestClassify6PropagatesTransportError(t *testing.T) {
	c := NewClassifier(&stubPredictor{err: errors.New("boom")}, &stubOracle{}, refdata.MustLoad())

	_, err := c.Classify6(context.Background(), "노트북")

	require.Error(t, err)
}

func TestExpand10ReturnsTariffLines(t *testing.T) {
	c := NewClassifier(&stubPredictor{}, &stubOracle{}, refdata.MustLoad())

	got := c.Expand10("8471.30")

	require.NotEmpty(t, got)
	for _, cand := range got {
		assert.Len(t, cand.Code, 10)
		assert.Equal(t, "847130", cand.Code[:6])
		assert.NotEmpty(t, cand.Description)
	}
}

func TestIsReclassificationIntent(t *testing.T) {
	c := NewClassifier(&stubPredictor{}, &stubOracle{reply: "네"}, refdata.MustLoad())
	assert.True(t, c.IsReclassificationIntent(context.Background(), "코드가 없다"))

	c = NewClassifier(&stubPredictor{}, &stubOracle{reply: "아니오"}, refdata.MustLoad())
	assert.False(t, c.IsReclassificationIntent(context.Background(), "3번"))

	c = NewClassifier(&stubPredictor{}, &stubOracle{err: errors.New("boom")}, refdata.MustLoad())
	assert.False(t, c.IsReclassificationIntent(context.Background(), "다시"))
}

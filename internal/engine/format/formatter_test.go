package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/customsbot-poc/server/internal/engine/model"
)

func sampleResult() *model.DutyResult {
	return &model.DutyResult{
		HSCode:        "6404111000",
		OriginCountry: "중국",
		UnitPrice:     decimal.NewFromInt(100000),
		Quantity:      2,
		ShippingCost:  decimal.NewFromInt(10000),
		TaxableBase:   decimal.NewFromInt(210000),
		Rate:          decimal.NewFromInt(13),
		Duty:          decimal.NewFromInt(27300),
		VAT:           decimal.RequireFromString("23730"),
		TotalTax:      decimal.RequireFromString("51030"),
		Category:      "WTO 협정세율",
		RuleNote:      "'WTO 회원국' 조건에 따라 세율이 결정되었습니다.",
	}
}

func TestDutyResultSections(t *testing.T) {
	out := DutyResult(sampleResult())

	assert.Contains(t, out, "# 🎯 관세 계산 완료!")
	assert.Contains(t, out, "## 📦 상품 정보")
	assert.Contains(t, out, "HS코드: 6404111000")
	assert.Contains(t, out, "원산지: 중국")
	assert.Contains(t, out, "상품가격: 100,000원")
	assert.Contains(t, out, "수량: 2개")
	assert.Contains(t, out, "| **관세율** | 13% |")
	assert.Contains(t, out, "| **관세금액** | 27,300원 |")
	assert.Contains(t, out, "| **부가가치세** | 23,730원 |")
	assert.Contains(t, out, "| **총 세금** | 51,030원 |")
	assert.Contains(t, out, "| **FTA 적용** | No |")
	assert.Contains(t, out, "적용 관세 규칙: WTO 협정세율")
	assert.Contains(t, out, "'WTO 회원국' 조건에 따라 세율이 결정되었습니다.")
}

func TestDutyResultAppendsDisclaimer(t *testing.T) {
	out := DutyResult(sampleResult())

	assert.Contains(t, out, Disclaimer)
	assert.Contains(t, out, "## 💡 참고사항")
}

func TestDutyResultExemptionMark(t *testing.T) {
	r := sampleResult()
	r.Duty = decimal.Zero
	r.VAT = decimal.Zero
	r.TotalTax = decimal.Zero
	r.FullyExempt = true

	out := DutyResult(r)

	assert.Contains(t, out, "| **관세금액** | 0원 (면세) |")
}

func TestDutyResultFTAYes(t *testing.T) {
	r := sampleResult()
	r.FTAApplied = true

	assert.Contains(t, DutyResult(r), "| **FTA 적용** | Yes |")
}

func TestRawWrapsVerbatim(t *testing.T) {
	out := Raw("  알 수 없는 결과  ")

	assert.Equal(t, "```\n알 수 없는 결과\n```", out)
}

func TestWon(t *testing.T) {
	assert.Equal(t, "1,500,000원", Won(1500000))
	assert.Equal(t, "0원", Won(0))
	assert.Equal(t, "999원", Won(999))
}

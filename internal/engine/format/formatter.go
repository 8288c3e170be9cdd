package format

import (
	"fmt"
	"strings"

	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/shopspring/decimal"
)

// Disclaimer is appended verbatim to every successful calculation result.
const Disclaimer = `## 💡 참고사항
- 위 금액은 예상 관세이며, 실제 관세는 세관 심사 결과에 따라 달라질 수 있습니다.
- 정확한 관세는 통관 시 세관에서 최종 결정됩니다.
- 추가 문의사항이 있으시면 언제든 말씀해 주세요!`

// DutyResult renders the calculator output as a display document with item,
// tax-breakdown and applied-rule sections. Formatting never fails.
func DutyResult(r *model.DutyResult) string {
	var b strings.Builder
	b.WriteString("# 🎯 관세 계산 완료!\n\n")

	b.WriteString("## 📦 상품 정보\n")
	fmt.Fprintf(&b, "- HS코드: %s\n", r.HSCode)
	fmt.Fprintf(&b, "- 원산지: %s\n", r.OriginCountry)
	fmt.Fprintf(&b, "- 상품가격: %s원\n", comma(r.UnitPrice))
	fmt.Fprintf(&b, "- 수량: %d개\n", r.Quantity)
	fmt.Fprintf(&b, "- 배송비: %s원\n\n", comma(r.ShippingCost))

	b.WriteString("## 📊 계산 결과\n")
	b.WriteString("| 항목 | 금액 |\n|------|------|\n")
	dutyCell := comma(r.Duty) + "원"
	if r.FullyExempt {
		dutyCell += " (면세)"
	}
	fmt.Fprintf(&b, "| **관세율** | %s%% |\n", r.Rate.String())
	fmt.Fprintf(&b, "| **관세금액** | %s |\n", dutyCell)
	fmt.Fprintf(&b, "| **부가가치세** | %s원 |\n", comma(r.VAT))
	fmt.Fprintf(&b, "| **총 세금** | %s원 |\n", comma(r.TotalTax))
	fmt.Fprintf(&b, "| **FTA 적용** | %s |\n\n", yesNo(r.FTAApplied))

	fmt.Fprintf(&b, "- 적용 관세 규칙: %s\n", r.Category)
	fmt.Fprintf(&b, "- 비고: %s\n\n", r.RuleNote)

	b.WriteString(Disclaimer)
	return b.String()
}

// Won renders a local-currency amount with thousands separators and the 원
// suffix, rounding to whole units.
func Won(v float64) string {
	return comma(decimal.NewFromFloat(v)) + "원"
}

// Raw wraps fallback text that is not a structured result verbatim instead
// of dropping it.
func Raw(text string) string {
	return "```\n" + strings.TrimSpace(text) + "\n```"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// comma rounds to whole local-currency units and inserts thousands
// separators.
func comma(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

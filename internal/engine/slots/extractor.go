package slots

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/prompts"
	"github.com/customsbot-poc/server/internal/engine/refdata"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// pricePattern binds a number-plus-unit regex to the Korean unit word it
// captures and the multiplier applied to the captured number. 만원 and 천원
// come before plain 원 so "150만원" resolves to 1,500,000원 rather than
// failing the plain-원 match.
type pricePattern struct {
	re         *regexp.Regexp
	unit       string
	multiplier float64
}

var pricePatterns = []pricePattern{
	{regexp.MustCompile(`([0-9][0-9,]*)\s*만원`), "원", 10000},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*천원`), "원", 1000},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*원`), "원", 1},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*달러`), "달러", 1},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*엔`), "엔", 1},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*위안`), "위안", 1},
	{regexp.MustCompile(`([0-9][0-9,]*)\s*유로`), "유로", 1},
}

var quantityPattern = regexp.MustCompile(`([0-9]+)\s*(?:개|대|켤레|장|벌)`)

// Korean numeral words paired with a counter, e.g. "노트북 한 대", "운동화 두 켤레".
var wordQuantityPattern = regexp.MustCompile(`(한|두|세|네|다섯|여섯|일곱|여덟|아홉|열)\s*(?:개|대|켤레|장|벌)`)

var koreanNumerals = map[string]int{
	"한": 1, "두": 2, "세": 3, "네": 4, "다섯": 5,
	"여섯": 6, "일곱": 7, "여덟": 8, "아홉": 9, "열": 10,
}

// Filler words stripped before treating the remainder as a product name.
// Currency and counter words are removed only as part of a matched
// number+unit pattern, never bare, so product names like 원두 survive.
var removeKeywords = []string{
	"에서 샀", "에서 구매", "에서",
	"개씩", "개를",
	"샀어요", "샀", "구매했어요", "구매",
	"가격은", "가격", "이에요", "예요",
}

// Request phrasing stripped when the whole utterance is just "predict duty
// for X"-style text.
var requestKeywords = []string{
	"관세", "예측", "계산", "해줘", "알려줘", "어떻게", "해주세요",
}

const (
	minProductNameRunes = 3
	maxProductNameRunes = 40
)

const extractionSchemaJSON = `{
  "type": "object",
  "properties": {
    "product_name": {"type": "string", "minLength": 1},
    "country": {"type": ["string", "null"]},
    "price": {"type": ["number", "null"]},
    "price_unit": {"type": ["string", "null"]},
    "quantity": {"type": ["integer", "null"]},
    "shipping_cost": {"type": ["number", "null"]}
  },
  "required": ["product_name"]
}`

var extractionSchema = jsonschema.MustCompileString("extraction.json", extractionSchemaJSON)

// Extractor turns one free-text Korean utterance into structured slots. A
// regex pass handles the common "국가에서 가격에 상품 샀어요" shapes; the
// oracle fills in what the regexes miss. Extraction never fails: at worst
// the result is empty and the caller re-prompts.
type Extractor struct {
	store  *refdata.Store
	oracle model.Oracle
}

func NewExtractor(store *refdata.Store, oracle model.Oracle) *Extractor {
	return &Extractor{store: store, oracle: oracle}
}

// Extract runs the deterministic pass, then consults the oracle only when a
// required slot is still missing. Deterministic values win on conflict since
// the regexes never hallucinate.
func (e *Extractor) Extract(ctx context.Context, utterance string) model.Slots {
	out := e.deterministic(utterance)

	if len(out.Missing()) > 0 && e.oracle != nil {
		if llm, ok := e.fromOracle(ctx, utterance); ok {
			out = out.Merge(llm)
		}
	}

	if out.ProductName == "" {
		out.ProductName = fallbackProductName(utterance)
	}
	return out
}

func (e *Extractor) deterministic(utterance string) model.Slots {
	var s model.Slots
	cleaned := utterance

	for _, p := range pricePatterns {
		m := p.re.FindStringSubmatch(utterance)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		v *= p.multiplier
		s.Price = &v
		s.PriceUnit = p.unit
		cleaned = strings.Replace(cleaned, m[0], "", 1)
		break
	}

	if m := quantityPattern.FindStringSubmatch(cleaned); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil && q > 0 {
			s.Quantity = &q
			cleaned = strings.Replace(cleaned, m[0], "", 1)
		}
	} else if m := wordQuantityPattern.FindStringSubmatch(cleaned); m != nil {
		q := koreanNumerals[m[1]]
		s.Quantity = &q
		cleaned = strings.Replace(cleaned, m[0], "", 1)
	}

	for _, country := range e.store.Countries() {
		if strings.Contains(utterance, country) {
			s.Country = country
			cleaned = strings.ReplaceAll(cleaned, country, "")
			break
		}
	}

	for _, kw := range removeKeywords {
		cleaned = strings.ReplaceAll(cleaned, kw, "")
	}
	for _, kw := range requestKeywords {
		cleaned = strings.ReplaceAll(cleaned, kw, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if n := len([]rune(cleaned)); n >= minProductNameRunes && n <= maxProductNameRunes {
		s.ProductName = cleaned
	}
	return s
}

// fromOracle asks for a JSON rendition of the slots and accepts it only when
// it validates against the extraction schema.
func (e *Extractor) fromOracle(ctx context.Context, utterance string) (model.Slots, bool) {
	reply, err := e.oracle.Complete(ctx, prompts.ExtractSlots(utterance))
	if err != nil {
		logx.Warn().Err(err).Msg("slot extraction fallback failed")
		return model.Slots{}, false
	}

	raw := stripCodeFence(reply)

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logx.Warn().Err(err).Str("reply", reply).Msg("slot extraction reply is not JSON")
		return model.Slots{}, false
	}
	if err := extractionSchema.Validate(doc); err != nil {
		logx.Warn().Err(err).Msg("slot extraction reply failed validation")
		return model.Slots{}, false
	}

	var s model.Slots
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return model.Slots{}, false
	}
	if s.Country != "" && !e.store.IsSupportedCountry(s.Country) {
		s.Country = ""
	}
	return s, true
}

// fallbackProductName treats a bare "커피 관세 계산해줘"-style utterance as a
// product name once the request phrasing is stripped off.
func fallbackProductName(utterance string) string {
	cleaned := utterance
	for _, kw := range requestKeywords {
		cleaned = strings.ReplaceAll(cleaned, kw, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if n := len([]rune(cleaned)); n == 0 || n > maxProductNameRunes {
		return ""
	}
	return cleaned
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

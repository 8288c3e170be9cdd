package refdata

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Country group labels as they appear in the duty-rule table.
const (
	groupEU        = "EU 27개국"
	groupEFTAPair  = "스위스, 리히텐슈타인"
	groupEFTA      = "EFTA 4개국"
	groupASEAN     = "아세안 10개국"
	groupWTO       = "WTO 회원국"
	groupUniversal = "모든 국가"
)

var efta = []string{"스위스", "리히텐슈타인", "아이슬란드", "노르웨이"}

var asean = []string{
	"브루나이", "캄보디아", "인도네시아", "라오스", "말레이시아",
	"미얀마", "필리핀", "싱가포르", "태국", "베트남",
}

var eu = []string{
	"오스트리아", "벨기에", "불가리아", "크로아티아", "키프로스", "체코", "덴마크",
	"에스토니아", "핀란드", "프랑스", "독일", "그리스", "헝가리", "아일랜드",
	"이탈리아", "라트비아", "리투아니아", "룩셈부르크", "몰타", "네덜란드",
	"폴란드", "포르투갈", "루마니아", "슬로바키아", "슬로베니아", "스페인", "스웨덴",
}

type hs10Row struct {
	HS10        string `yaml:"hs10"`
	Description string `yaml:"description"`
}

type currencyUnit struct {
	Code         string  `yaml:"code"`
	Word         string  `yaml:"word"`
	FallbackRate float64 `yaml:"fallback_rate"`
}

type dutyRulesFile struct {
	Rules []model.DutyRule `yaml:"rules"`
}

type hs10File struct {
	Rows []hs10Row `yaml:"rows"`
}

type currenciesFile struct {
	Countries map[string]string `yaml:"countries"`
	Units     []currencyUnit    `yaml:"units"`
}

// Store is the read-only reference-data access layer: duty-rule rows keyed by
// commodity code, the HS6→HS10 expansion table, and the country→currency
// table. Loaded once at startup, never mutated afterwards.
type Store struct {
	rulesByCode map[string][]model.DutyRule
	hs10        []hs10Row
	countries   map[string]string
	unitByCode  map[string]currencyUnit
	unitByWord  map[string]currencyUnit
	countryList []string
}

// Load parses the embedded reference tables.
func Load() (*Store, error) {
	s := &Store{
		rulesByCode: map[string][]model.DutyRule{},
		countries:   map[string]string{},
		unitByCode:  map[string]currencyUnit{},
		unitByWord:  map[string]currencyUnit{},
	}

	var rules dutyRulesFile
	if err := readYAML("data/duty_rules.yaml", &rules); err != nil {
		return nil, err
	}
	for _, r := range rules.Rules {
		code := NormalizeHS10(r.Code)
		r.Code = code
		s.rulesByCode[code] = append(s.rulesByCode[code], r)
	}

	var hs10 hs10File
	if err := readYAML("data/hs10.yaml", &hs10); err != nil {
		return nil, err
	}
	s.hs10 = hs10.Rows

	var cur currenciesFile
	if err := readYAML("data/currencies.yaml", &cur); err != nil {
		return nil, err
	}
	s.countries = cur.Countries
	for _, u := range cur.Units {
		s.unitByCode[u.Code] = u
		s.unitByWord[u.Word] = u
	}
	for c := range s.countries {
		s.countryList = append(s.countryList, c)
	}
	// longest first so substring matching prefers 유럽연합 over 유럽 etc.
	sort.Slice(s.countryList, func(i, j int) bool {
		if len(s.countryList[i]) != len(s.countryList[j]) {
			return len(s.countryList[i]) > len(s.countryList[j])
		}
		return s.countryList[i] < s.countryList[j]
	})
	return s, nil
}

func readYAML(name string, out any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// MustLoad panics on a broken embedded table. Reference data ships with the
// binary, so a load failure is a build defect, not a runtime condition.
func MustLoad() *Store {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Countries returns every supported country name, longest name first.
func (s *Store) Countries() []string {
	return s.countryList
}

// IsSupportedCountry reports whether the country has a currency entry.
func (s *Store) IsSupportedCountry(country string) bool {
	_, ok := s.countries[country]
	return ok
}

// CurrencyFor resolves a country to its currency unit code.
func (s *Store) CurrencyFor(country string) (string, error) {
	unit, ok := s.countries[country]
	if !ok {
		return "", fmt.Errorf("%w: %s", errx.ErrNoCurrency, country)
	}
	return unit, nil
}

// UnitForWord maps a Korean price-unit word (달러, 엔, …) to its currency
// code; the bool is false for the local unit or unknown words.
func (s *Store) UnitForWord(word string) (string, bool) {
	u, ok := s.unitByWord[word]
	if !ok {
		return "", false
	}
	return u.Code, true
}

// FallbackRate returns the static fallback rate for a currency unit code.
func (s *Store) FallbackRate(unitCode string) (float64, bool) {
	u, ok := s.unitByCode[unitCode]
	if !ok {
		return 0, false
	}
	return u.FallbackRate, true
}

// FallbackRateForWord returns the static fallback rate for a Korean unit word.
func (s *Store) FallbackRateForWord(word string) (float64, bool) {
	u, ok := s.unitByWord[word]
	if !ok {
		return 0, false
	}
	return u.FallbackRate, true
}

// NormalizeHS6 strips dots and right-pads with zeros to six digits, so both
// "8471.30" and "847130" address the same prefix.
func NormalizeHS6(code string) string {
	c := strings.ReplaceAll(strings.TrimSpace(code), ".", "")
	if len(c) > 6 {
		c = c[:6]
	}
	for len(c) < 6 {
		c += "0"
	}
	return c
}

// NormalizeHS10 strips dots and left-pads with zeros to ten digits.
func NormalizeHS10(code string) string {
	c := strings.ReplaceAll(strings.TrimSpace(code), ".", "")
	for len(c) < 10 {
		c = "0" + c
	}
	return c
}

// Expand10 returns every HS10 row whose code starts with the normalised
// six-digit prefix of hs6, as (code, description) candidates. Zero matches is
// a valid outcome the caller reports to the user.
func (s *Store) Expand10(hs6 string) []model.Candidate {
	prefix := NormalizeHS6(hs6)
	var out []model.Candidate
	for _, row := range s.hs10 {
		if strings.HasPrefix(NormalizeHS10(row.HS10), prefix) {
			out = append(out, model.Candidate{
				Code:        NormalizeHS10(row.HS10),
				Description: row.Description,
			})
		}
	}
	return out
}

// ResolveDutyRule walks the priority cascade for the given code and origin:
// exact country, trade-bloc groups the country belongs to (EU, EFTA, ASEAN),
// the WTO-member row, then the universal row. The returned note names the
// tier that matched.
func (s *Store) ResolveDutyRule(hs10 string, country string) (model.DutyRule, string, error) {
	code := NormalizeHS10(hs10)
	rows, ok := s.rulesByCode[code]
	if !ok || len(rows) == 0 {
		return model.DutyRule{}, "", fmt.Errorf("%w: HS code %s", errx.ErrNoDutyRule, code)
	}

	priority := []string{country}
	if contains(eu, country) {
		priority = append(priority, groupEU)
	}
	if contains(efta, country) {
		priority = append(priority, groupEFTAPair, groupEFTA)
	}
	if contains(asean, country) {
		priority = append(priority, groupASEAN)
	}
	priority = append(priority, groupWTO, groupUniversal)

	for _, tier := range priority {
		for _, row := range rows {
			if row.Country == tier {
				note := fmt.Sprintf("'%s' 조건에 따라 세율이 결정되었습니다.", tier)
				return row, note, nil
			}
		}
	}
	return model.DutyRule{}, "", fmt.Errorf("%w: HS code %s (원산지 %s)", errx.ErrNoDutyRule, code, country)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package refdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/customsbot-poc/server/internal/core/error"
)

func TestNormalizeHS6(t *testing.T) {
	assert.Equal(t, "847130", NormalizeHS6("8471.30"))
	assert.Equal(t, "847130", NormalizeHS6("8471.30.00"))
	assert.Equal(t, "847130", NormalizeHS6("847130"))
	assert.Equal(t, "847100", NormalizeHS6("8471"))
}

func TestNormalizeHS10(t *testing.T) {
	assert.Equal(t, "8471300000", NormalizeHS10("8471300000"))
	assert.Equal(t, "0901211000", NormalizeHS10("901211000"))
	assert.Equal(t, "8471300000", NormalizeHS10("8471.30.00.00"))
}

func TestExpand10OnlyMatchesPrefix(t *testing.T) {
	store := MustLoad()

	cands := store.Expand10("8471.30")

	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.True(t, strings.HasPrefix(c.Code, "847130"), "code %s", c.Code)
		assert.NotEmpty(t, c.Description)
	}
}

func TestExpand10UnknownPrefixIsEmpty(t *testing.T) {
	store := MustLoad()

	assert.Empty(t, store.Expand10("999999"))
}

func TestResolveDutyRuleExactCountryWins(t *testing.T) {
	store := MustLoad()

	rule, note, err := store.ResolveDutyRule("8471300000", "미국")

	require.NoError(t, err)
	assert.Equal(t, "미국", rule.Country)
	assert.True(t, rule.FTAApplied())
	assert.Contains(t, note, "미국")
}

func TestResolveDutyRuleEUGroup(t *testing.T) {
	store := MustLoad()

	rule, note, err := store.ResolveDutyRule("8471300000", "독일")

	require.NoError(t, err)
	assert.Equal(t, "EU 27개국", rule.Country)
	assert.Contains(t, note, "EU 27개국")
}

func TestResolveDutyRuleEFTAPair(t *testing.T) {
	store := MustLoad()

	rule, _, err := store.ResolveDutyRule("9102110000", "스위스")

	require.NoError(t, err)
	assert.Equal(t, "스위스, 리히텐슈타인", rule.Country)
	assert.Equal(t, 0.0, rule.Rate)
}

func TestResolveDutyRuleASEANGroup(t *testing.T) {
	store := MustLoad()

	rule, _, err := store.ResolveDutyRule("6404111000", "베트남")

	require.NoError(t, err)
	assert.Equal(t, "아세안 10개국", rule.Country)
}

func TestResolveDutyRuleWTOFallback(t *testing.T) {
	store := MustLoad()

	rule, _, err := store.ResolveDutyRule("6404111000", "중국")

	require.NoError(t, err)
	assert.Equal(t, "WTO 회원국", rule.Country)
	assert.Equal(t, 13.0, rule.Rate)
}

func TestResolveDutyRuleUnknownCode(t *testing.T) {
	store := MustLoad()

	_, _, err := store.ResolveDutyRule("1234567890", "미국")

	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrNoDutyRule)
}

func TestCurrencyLookups(t *testing.T) {
	store := MustLoad()

	unit, err := store.CurrencyFor("일본")
	require.NoError(t, err)
	assert.Equal(t, "JPY", unit)

	_, err = store.CurrencyFor("남극")
	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrNoCurrency)

	code, ok := store.UnitForWord("달러")
	require.True(t, ok)
	assert.Equal(t, "USD", code)

	rate, ok := store.FallbackRate("JPY")
	require.True(t, ok)
	assert.Equal(t, 9.0, rate)
}

func TestCountriesSortedLongestFirst(t *testing.T) {
	store := MustLoad()

	countries := store.Countries()
	require.NotEmpty(t, countries)
	for i := 1; i < len(countries); i++ {
		assert.GreaterOrEqual(t, len(countries[i-1]), len(countries[i]))
	}
	assert.True(t, store.IsSupportedCountry("미국"))
	assert.False(t, store.IsSupportedCountry("아틀란티스"))
}

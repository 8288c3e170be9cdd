package slots

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customsbot-poc/server/internal/engine/refdata"
)

type stubOracle struct {
	reply string
	err   error
	calls int
}

func (s *stubOracle) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestExtractDeterministicFullUtterance(t *testing.T) {
	store := refdata.MustLoad()
	ext := NewExtractor(store, nil)

	got := ext.Extract(context.Background(), "미국에서 150만원에 노트북을 샀어요")

	require.NotNil(t, got.Price)
	assert.Equal(t, 1500000.0, *got.Price)
	assert.Equal(t, "원", got.PriceUnit)
	assert.Equal(t, "미국", got.Country)
	assert.Contains(t, got.ProductName, "노트북")
	assert.Empty(t, got.Missing())
}

func TestExtractForeignCurrencyAndQuantity(t *testing.T) {
	store := refdata.MustLoad()
	ext := NewExtractor(store, nil)

	got := ext.Extract(context.Background(), "블루투스 이어폰 2개를 120달러에 일본에서 샀어요")

	require.NotNil(t, got.Price)
	assert.Equal(t, 120.0, *got.Price)
	assert.Equal(t, "달러", got.PriceUnit)
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 2, *got.Quantity)
	assert.Equal(t, "일본", got.Country)
}

func TestExtractKoreanNumeralQuantity(t *testing.T) {
	store := refdata.MustLoad()
	ext := NewExtractor(store, nil)

	got := ext.Extract(context.Background(), "독일에서 80만원에 운동화 두 켤레를 샀어요")

	require.NotNil(t, got.Quantity)
	assert.Equal(t, 2, *got.Quantity)
	assert.Equal(t, "독일", got.Country)
	assert.Contains(t, got.ProductName, "운동화")
}

func TestExtractThousandWonMultiplier(t *testing.T) {
	store := refdata.MustLoad()
	ext := NewExtractor(store, nil)

	got := ext.Extract(context.Background(), "중국에서 30천원에 키링을 샀어요")

	require.NotNil(t, got.Price)
	assert.Equal(t, 30000.0, *got.Price)
	assert.Equal(t, "원", got.PriceUnit)
	assert.Equal(t, "중국", got.Country)
}

func TestExtractOracleFillsMissingSlots(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: `{"product_name": "원두 커피", "country": "미국", "price": 50, "price_unit": "달러", "quantity": 1, "shipping_cost": 0}`}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "원두 커피 관세 알려줘")

	assert.Equal(t, 1, oracle.calls)
	assert.Equal(t, "원두 커피", got.ProductName)
	assert.Equal(t, "미국", got.Country)
	require.NotNil(t, got.Price)
	assert.Equal(t, 50.0, *got.Price)
}

func TestExtractDeterministicWinsOverOracle(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: `{"product_name": "신발", "country": "프랑스", "price": 1, "price_unit": "원"}`}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "독일에서 80000원에 운동화 샀어요")

	assert.Equal(t, "독일", got.Country)
	require.NotNil(t, got.Price)
	assert.Equal(t, 80000.0, *got.Price)
}

func TestExtractOracleFencedReply(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: "```json\n{\"product_name\": \"커피\"}\n```"}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "커피")

	assert.Equal(t, "커피", got.ProductName)
}

func TestExtractOracleInvalidJSONFallsBack(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: "상품명은 커피입니다"}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "커피 관세 계산해줘")

	// fallback strips the request phrasing and keeps the remainder
	assert.Equal(t, "커피", got.ProductName)
	assert.Nil(t, got.Price)
}

func TestExtractOracleSchemaViolationIgnored(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: `{"country": "미국"}`}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "이것 좀 봐줘요 제발요 부탁해요")

	assert.Empty(t, got.Country)
}

func TestExtractOracleErrorDoesNotPropagate(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{err: errors.New("boom")}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "노트북 가격 알려줘")

	assert.NotEmpty(t, got.ProductName)
}

func TestExtractUnsupportedOracleCountryDropped(t *testing.T) {
	store := refdata.MustLoad()
	oracle := &stubOracle{reply: `{"product_name": "엽서", "country": "북한"}`}
	ext := NewExtractor(store, oracle)

	got := ext.Extract(context.Background(), "엽서")

	assert.Equal(t, "엽서", got.ProductName)
	assert.Empty(t, got.Country)
}

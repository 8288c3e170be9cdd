package model

// ================ Config ================
type OracleModelConfig struct {
	Model       string  `envconfig:"ORACLE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ORACLE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ORACLE_TEMPERATURE" default:"0.1"`
	// MaxRateLimitRetries bounds the only automatic retry in the engine:
	// re-issuing a completion after a rate-limit response.
	MaxRateLimitRetries int `envconfig:"ORACLE_MAX_RATE_LIMIT_RETRIES" default:"1"`
}

type SessionConfig struct {
	TTL string `envconfig:"SESSION_TTL" default:"30m"`
}

type FxConfig struct {
	BaseURL        string `envconfig:"KOREAEXIM_BASE_URL" default:"https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON"`
	AuthKey        string `envconfig:"KOREAEXIM_AUTH_KEY"`
	TimeoutSeconds int    `envconfig:"KOREAEXIM_TIMEOUT" default:"5"`
}

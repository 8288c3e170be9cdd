package model

// Scenario identifies the purchase channel. The values are the Korean labels
// the rest of the pipeline matches on, so they double as display strings.
type Scenario string

const (
	// ScenarioOverseasDirect is an online purchase from an overseas shop.
	ScenarioOverseasDirect Scenario = "해외직구"
	// ScenarioPurchasedAbroad is a purchase carried home from a trip abroad.
	ScenarioPurchasedAbroad Scenario = "해외체류 중 구매"
	// ScenarioShippedFromAbroad is a parcel shipped from abroad.
	ScenarioShippedFromAbroad Scenario = "해외배송"
)

// ValidScenarios lists every scenario in detection-priority order.
var ValidScenarios = []Scenario{ScenarioOverseasDirect, ScenarioPurchasedAbroad, ScenarioShippedFromAbroad}

// Step is the state-machine driver. Steps only advance forward in the order
// below; any other transition is a full reset to StepScenarioSelection.
type Step string

const (
	StepScenarioSelection Step = "scenario_selection"
	StepInputCollection   Step = "input_collection"
	StepHS6Selection      Step = "hs6_selection"
	StepHS10Selection     Step = "hs10_selection"
)

// Candidate is one ranked commodity-code candidate shown to the user.
// Confidence is only populated for HS6 candidates; FullCode carries the raw
// classifier output when it was longer than six digits.
type Candidate struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence,omitempty"`
	FullCode    string  `json:"full_code,omitempty"`
}

const (
	DefaultQuantity     = 1
	DefaultShippingCost = 0.0
	// DefaultCountry substitutes a blank origin at calculation time.
	DefaultCountry = "미국"
	// LocalCurrencyUnit is the unit prices are normalised to.
	LocalCurrencyUnit = "원"
)

// TariffState is the per-session mutable state. One session owns exactly one
// TariffState for its lifetime; it is reset on termination or after a
// completed calculation.
type TariffState struct {
	Scenario       Scenario    `json:"scenario,omitempty"`
	ProductName    string      `json:"product_name,omitempty"`
	Country        string      `json:"country,omitempty"`
	Price          float64     `json:"price,omitempty"`
	PriceUnit      string      `json:"price_unit"`
	Quantity       int         `json:"quantity"`
	ShippingCost   float64     `json:"shipping_cost"`
	HS6Code        string      `json:"hs6_code,omitempty"`
	HS10Code       string      `json:"hs10_code,omitempty"`
	HS6Candidates  []Candidate `json:"hs6_candidates,omitempty"`
	HS10Candidates []Candidate `json:"hs10_candidates,omitempty"`
	CurrentStep    Step        `json:"current_step"`
	SessionActive  bool        `json:"session_active"`
	// Responses is the append-only transcript of engine outputs.
	Responses []string `json:"responses,omitempty"`
}

// NewTariffState returns a state positioned at scenario selection with the
// documented defaults.
func NewTariffState() *TariffState {
	return &TariffState{
		PriceUnit:   LocalCurrencyUnit,
		Quantity:    DefaultQuantity,
		CurrentStep: StepScenarioSelection,
	}
}

// Reset returns the state to its defaults, clearing candidates and codes.
func (s *TariffState) Reset() {
	*s = *NewTariffState()
}

// Record appends an engine reply to the transcript and returns it unchanged,
// so handlers can `return st.Record(msg)`.
func (s *TariffState) Record(response string) string {
	s.Responses = append(s.Responses, response)
	return response
}

// ReadyForCalculation reports whether every field the calculator needs is
// populated. Country and scenario are allowed to be blank here because the
// calculation step substitutes their defaults.
func (s *TariffState) ReadyForCalculation() bool {
	return s.HS10Code != "" && s.Price > 0 && s.Quantity > 0
}

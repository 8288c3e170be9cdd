package model

// Slots is a partial structured record extracted from one free-text
// utterance. Pointer fields distinguish "absent" from zero values so merges
// never clobber earlier turns.
type Slots struct {
	ProductName  string   `json:"product_name,omitempty"`
	Country      string   `json:"country,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PriceUnit    string   `json:"price_unit,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	ShippingCost *float64 `json:"shipping_cost,omitempty"`
}

// Merge fills fields absent from s with values from prior. The current
// utterance always wins.
func (s Slots) Merge(prior Slots) Slots {
	out := s
	if out.ProductName == "" {
		out.ProductName = prior.ProductName
	}
	if out.Country == "" {
		out.Country = prior.Country
	}
	if out.Price == nil {
		out.Price = prior.Price
		if out.PriceUnit == "" {
			out.PriceUnit = prior.PriceUnit
		}
	}
	if out.Quantity == nil {
		out.Quantity = prior.Quantity
	}
	if out.ShippingCost == nil {
		out.ShippingCost = prior.ShippingCost
	}
	return out
}

// Missing returns the Korean names of required slots that are still absent,
// in the order they are prompted for.
func (s Slots) Missing() []string {
	var missing []string
	if s.ProductName == "" {
		missing = append(missing, "상품명")
	}
	if s.Country == "" {
		missing = append(missing, "구매 국가")
	}
	if s.Price == nil || *s.Price <= 0 {
		missing = append(missing, "상품 가격")
	}
	return missing
}

// CapturedSlots exposes the fields collected in earlier turns as a Slots
// value, so the current turn's extraction can be merged over them.
func (s *TariffState) CapturedSlots() Slots {
	var sl Slots
	sl.ProductName = s.ProductName
	sl.Country = s.Country
	if s.Price > 0 {
		p := s.Price
		sl.Price = &p
		sl.PriceUnit = s.PriceUnit
	}
	if s.Quantity > 0 {
		q := s.Quantity
		sl.Quantity = &q
	}
	return sl
}

// ApplySlots copies present slot values into the state, leaving absent ones
// untouched.
func (s *TariffState) ApplySlots(sl Slots) {
	if sl.ProductName != "" {
		s.ProductName = sl.ProductName
	}
	if sl.Country != "" {
		s.Country = sl.Country
	}
	if sl.Price != nil && *sl.Price > 0 {
		s.Price = *sl.Price
		if sl.PriceUnit != "" {
			s.PriceUnit = sl.PriceUnit
		}
	}
	if sl.Quantity != nil && *sl.Quantity > 0 {
		s.Quantity = *sl.Quantity
	}
	if sl.ShippingCost != nil && *sl.ShippingCost >= 0 {
		s.ShippingCost = *sl.ShippingCost
	}
}

// QuantityOrDefault returns the extracted quantity, defaulting to one.
func (s Slots) QuantityOrDefault() int {
	if s.Quantity == nil || *s.Quantity <= 0 {
		return DefaultQuantity
	}
	return *s.Quantity
}

// ShippingOrDefault returns the extracted shipping cost, defaulting to zero.
func (s Slots) ShippingOrDefault() float64 {
	if s.ShippingCost == nil || *s.ShippingCost < 0 {
		return DefaultShippingCost
	}
	return *s.ShippingCost
}

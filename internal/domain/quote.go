package domain

// Quote states
const (
	QuoteIdle        = "idle"
	QuoteAvailable   = "available"
	QuoteUnavailable = "unavailable"
)

// How a destination was matched
const (
	MatchExact       = "exact"
	MatchPrefix      = "prefix"
	MatchSubstring   = "substring"
	MatchMainCity    = "main_city"
	MatchZoneCountry = "zone_country"
	MatchZonePrice   = "zone_price"
)

type QuoteRequest struct {
	Query       string `json:"query"`
	Country     string `json:"country"`
	ZoneTarifID string `json:"zoneTarifId,omitempty"`
}

// CarrierOption pairs a zone tariff with its carrier.
type CarrierOption struct {
	ZoneTarifID      string `json:"zoneTarifId"`
	TransporteurID   string `json:"transporteurId"`
	TransporteurName string `json:"transporteurName"`
	LogoURL          string `json:"logoUrl,omitempty"`
	Price            int64  `json:"price"`
	StandardPrice    int64  `json:"standardPrice"`
	Savings          int64  `json:"savings"`
	SavingsPercent   int    `json:"savingsPercent"`
	DelayMin         int    `json:"delayMin"`
	DelayMax         int    `json:"delayMax"`
	DeliveryTime     string `json:"deliveryTime"`
}

// DeliveryQuote is the outcome of resolving a destination. Status idle means
// the query was too short to look anything up.
type DeliveryQuote struct {
	Status       string `json:"status"`
	DeliveryType string `json:"deliveryType,omitempty"`
	MatchType    string `json:"matchType,omitempty"`
	Query        string `json:"query"`
	Country      string `json:"country"`
	CountryName  string `json:"countryName"`
	Message      string `json:"message,omitempty"`

	City   *City              `json:"city,omitempty"`
	Region *Region            `json:"region,omitempty"`
	Zone   *InternationalZone `json:"zone,omitempty"`

	Fee             int64           `json:"fee"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
	RequiresCarrier bool            `json:"requiresCarrier"`
	Options         []CarrierOption `json:"options,omitempty"`
	Selected        *CarrierOption  `json:"selected,omitempty"`
}

func (q DeliveryQuote) Available() bool {
	return q.Status == QuoteAvailable
}

// Option looks up a carrier option by tariff id.
func (q DeliveryQuote) Option(zoneTarifID string) (CarrierOption, bool) {
	for _, o := range q.Options {
		if o.ZoneTarifID == zoneTarifID {
			return o, true
		}
	}
	return CarrierOption{}, false
}

package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/countries"
	"sunushop-backend/pkg/utils"
)

const (
	minQueryLen     = 2
	minPrefixLen    = 3
	minSubstringLen = 4
)

// DeliveryResolver turns a free-text destination into a delivery quote.
// It is pure over the catalog it is given and never returns an error: any
// failure becomes an unavailable quote with a message for the shopper.
type DeliveryResolver struct {
	homeCountry string
}

func NewDeliveryResolver(homeCountry string) *DeliveryResolver {
	if homeCountry == "" {
		homeCountry = "SN"
	}
	return &DeliveryResolver{homeCountry: strings.ToUpper(homeCountry)}
}

func (r *DeliveryResolver) HomeCountry() string {
	return r.homeCountry
}

func (r *DeliveryResolver) Resolve(catalog *domain.DeliveryCatalog, req domain.QuoteRequest) (quote domain.DeliveryQuote) {
	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if country == "" {
		country = r.homeCountry
	}

	quote = domain.DeliveryQuote{
		Status:      domain.QuoteIdle,
		Query:       strings.TrimSpace(req.Query),
		Country:     country,
		CountryName: countries.NameFR(country),
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Resolver: delivery resolution panicked", "query", req.Query, "country", country, "panic", rec)
			quote = unavailable(quote, "Impossible de calculer les frais de livraison pour le moment")
		}
	}()

	if catalog == nil {
		return unavailable(quote, "Impossible de calculer les frais de livraison pour le moment")
	}

	if country == r.homeCountry {
		q := utils.NormalizeCityName(req.Query)
		if utf8.RuneCountInString(q) < minQueryLen {
			return quote
		}
		return r.resolveDomestic(catalog, q, quote)
	}
	return r.resolveInternational(catalog, req.ZoneTarifID, quote)
}

func (r *DeliveryResolver) resolveDomestic(catalog *domain.DeliveryCatalog, q string, quote domain.DeliveryQuote) domain.DeliveryQuote {
	if city, match := matchCity(catalog.Cities, q); city != nil {
		quote.Status = domain.QuoteAvailable
		quote.DeliveryType = domain.DeliveryTypeCity
		quote.MatchType = match
		quote.City = city
		quote.Fee = city.Fee()
		quote.DeliveryTime = city.Label()
		if city.IsFree {
			quote.Message = fmt.Sprintf("Livraison gratuite à %s", city.Name)
		} else {
			quote.Message = fmt.Sprintf("Livraison disponible à %s", city.Name)
		}
		return quote
	}

	if region, match := matchRegion(catalog.Regions, q); region != nil {
		quote.Status = domain.QuoteAvailable
		quote.DeliveryType = domain.DeliveryTypeRegion
		quote.MatchType = match
		quote.Region = region
		quote.Fee = region.Price
		quote.DeliveryTime = region.Label()
		quote.Message = fmt.Sprintf("Livraison disponible dans la région de %s", region.Name)
		return quote
	}

	return unavailable(quote, fmt.Sprintf("Zone non desservie : nous ne livrons pas encore à %s", quote.Query))
}

func (r *DeliveryResolver) resolveInternational(catalog *domain.DeliveryCatalog, selectedTarif string, quote domain.DeliveryQuote) domain.DeliveryQuote {
	country, ok := countries.Lookup(quote.Country)
	if !ok {
		country = countries.Country{Code: quote.Country, NameFR: quote.Country, NameEN: quote.Country}
	}

	zone := matchZone(catalog.Zones, country)
	if zone == nil {
		return unavailable(quote, fmt.Sprintf("Pays non desservi : %s", quote.CountryName))
	}

	quote.DeliveryType = domain.DeliveryTypeInternational
	quote.MatchType = domain.MatchZoneCountry
	quote.Zone = zone

	options := carrierOptions(catalog, zone)
	if len(options) > 0 {
		selected := options[0]
		if o, found := findOption(options, selectedTarif); found {
			selected = o
		}
		quote.Status = domain.QuoteAvailable
		quote.RequiresCarrier = true
		quote.Options = options
		quote.Selected = &selected
		quote.Fee = selected.Price
		quote.DeliveryTime = selected.DeliveryTime
		quote.Message = fmt.Sprintf("%d transporteur(s) disponible(s) pour %s", len(options), quote.CountryName)
		return quote
	}

	if zone.Price > 0 {
		quote.Status = domain.QuoteAvailable
		quote.MatchType = domain.MatchZonePrice
		quote.Fee = zone.Price
		quote.DeliveryTime = zone.Label()
		quote.Message = fmt.Sprintf("Livraison internationale disponible pour %s", quote.CountryName)
		return quote
	}

	return unavailable(quote, fmt.Sprintf("Aucun transporteur disponible pour %s", quote.CountryName))
}

func unavailable(quote domain.DeliveryQuote, message string) domain.DeliveryQuote {
	quote.Status = domain.QuoteUnavailable
	quote.Message = message
	quote.Fee = 0
	quote.DeliveryTime = ""
	quote.Options = nil
	quote.Selected = nil
	quote.RequiresCarrier = false
	return quote
}

// isActive treats an empty status as active; embedded carrier objects often omit it.
func isActive(s domain.Status) bool {
	return s != domain.StatusInactive
}

// nameMatcher runs the exact, prefix and substring stages over a list of
// normalized names. Within a stage the first name in list order wins.
func nameMatcher(names []string, q string) (int, string) {
	for i, n := range names {
		if n != "" && n == q {
			return i, domain.MatchExact
		}
	}

	qLen := utf8.RuneCountInString(q)
	if qLen >= minPrefixLen {
		for i, n := range names {
			if strings.HasPrefix(n, q) {
				return i, domain.MatchPrefix
			}
		}
	}

	if qLen >= minSubstringLen {
		for i, n := range names {
			if strings.Contains(n, q) {
				return i, domain.MatchSubstring
			}
		}

		// A full address like "rue 10 point e" names the destination inside it.
		padded := " " + q + " "
		for i, n := range names {
			if utf8.RuneCountInString(n) >= minSubstringLen && strings.Contains(padded, " "+n+" ") {
				return i, domain.MatchSubstring
			}
		}
	}

	return -1, ""
}

func matchCity(cities []domain.City, q string) (*domain.City, string) {
	active := make([]domain.City, 0, len(cities))
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		if isActive(c.Status) {
			active = append(active, c)
			names = append(names, utils.NormalizeCityName(c.Name))
		}
	}

	if i, match := nameMatcher(names, q); i >= 0 {
		city := active[i]
		return &city, match
	}
	return nil, ""
}

func matchRegion(regions []domain.Region, q string) (*domain.Region, string) {
	active := make([]domain.Region, 0, len(regions))
	names := make([]string, 0, len(regions))
	for _, r := range regions {
		if isActive(r.Status) {
			active = append(active, r)
			names = append(names, utils.NormalizeCityName(r.Name))
		}
	}

	if i, match := nameMatcher(names, q); i >= 0 {
		region := active[i]
		return &region, match
	}

	// mainCities: an exact listed city first, then a substring of the whole field
	for _, r := range active {
		for _, c := range r.MainCityList() {
			if utils.NormalizeCityName(c) == q {
				region := r
				return &region, domain.MatchMainCity
			}
		}
	}
	if utf8.RuneCountInString(q) >= minPrefixLen {
		for _, r := range active {
			if strings.Contains(utils.NormalizeCityName(r.MainCities), q) {
				region := r
				return &region, domain.MatchMainCity
			}
		}
	}
	return nil, ""
}

func matchZone(zones []domain.InternationalZone, country countries.Country) *domain.InternationalZone {
	for _, z := range zones {
		if !isActive(z.Status) {
			continue
		}
		for _, entry := range z.Countries {
			if country.Matches(entry) {
				zone := z
				return &zone
			}
		}
	}
	return nil
}

func carrierOptions(catalog *domain.DeliveryCatalog, zone *domain.InternationalZone) []domain.CarrierOption {
	carriers := make(map[string]domain.Transporteur, len(catalog.Transporteurs))
	for _, t := range catalog.Transporteurs {
		carriers[t.ID] = t
	}
	zoneName := utils.NormalizeCityName(zone.Name)

	var options []domain.CarrierOption
	for _, t := range catalog.Tarifs {
		if !isActive(t.Status) {
			continue
		}
		byID := t.ZoneID != "" && t.ZoneID == zone.ID
		byName := zoneName != "" && utils.NormalizeCityName(t.ZoneName) == zoneName
		if !byID && !byName {
			continue
		}

		var carrier domain.Transporteur
		if t.Transporteur != nil {
			carrier = *t.Transporteur
		} else if c, ok := carriers[t.TransporteurID]; ok {
			carrier = c
		} else {
			continue
		}
		if !isActive(carrier.Status) {
			continue
		}

		name := carrier.Name
		if name == "" {
			name = t.TransporteurName
		}
		options = append(options, newCarrierOption(t, carrier, name))
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Price != options[j].Price {
			return options[i].Price < options[j].Price
		}
		return options[i].TransporteurName < options[j].TransporteurName
	})
	return options
}

func newCarrierOption(t domain.ZoneTarif, carrier domain.Transporteur, name string) domain.CarrierOption {
	opt := domain.CarrierOption{
		ZoneTarifID:      t.ID,
		TransporteurID:   carrier.ID,
		TransporteurName: name,
		LogoURL:          carrier.LogoURL,
		Price:            t.PrixTransporteur,
		StandardPrice:    t.PrixStandardInternational,
		DelayMin:         t.DelaiLivraisonMin,
		DelayMax:         t.DelaiLivraisonMax,
		DeliveryTime:     domain.FormatDelay(t.DelaiLivraisonMin, t.DelaiLivraisonMax, domain.TimeUnitDays),
	}
	if opt.TransporteurID == "" {
		opt.TransporteurID = t.TransporteurID
	}
	if savings := t.PrixStandardInternational - t.PrixTransporteur; savings > 0 && t.PrixStandardInternational > 0 {
		opt.Savings = savings
		opt.SavingsPercent = int(math.Round(float64(savings) * 100 / float64(t.PrixStandardInternational)))
	}
	return opt
}

func findOption(options []domain.CarrierOption, zoneTarifID string) (domain.CarrierOption, bool) {
	if zoneTarifID == "" {
		return domain.CarrierOption{}, false
	}
	for _, o := range options {
		if o.ZoneTarifID == zoneTarifID {
			return o, true
		}
	}
	return domain.CarrierOption{}, false
}

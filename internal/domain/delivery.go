package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Status of a delivery reference record. Only active records take part in
// resolution; admins can toggle without deleting.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// Dakar city zone types
const (
	ZoneTypeDakarVille = "dakar-ville"
	ZoneTypeBanlieue   = "banlieue"
)

// Delivery time units
const (
	TimeUnitHours = "heures"
	TimeUnitDays  = "jours"
)

// Delivery types stored in DeliveryInfo
const (
	DeliveryTypeCity          = "city"
	DeliveryTypeRegion        = "region"
	DeliveryTypeInternational = "international"
)

// DeliveryWindow is the min/max delay shared by cities, regions and zones.
type DeliveryWindow struct {
	DeliveryTimeMin  int    `json:"deliveryTimeMin" validate:"gte=0"`
	DeliveryTimeMax  int    `json:"deliveryTimeMax" validate:"gtefield=DeliveryTimeMin"`
	DeliveryTimeUnit string `json:"deliveryTimeUnit" validate:"omitempty,oneof=heures jours"`
}

// Label renders the window the way the storefront shows it, e.g. "24-48 heures".
func (w DeliveryWindow) Label() string {
	return FormatDelay(w.DeliveryTimeMin, w.DeliveryTimeMax, w.DeliveryTimeUnit)
}

func FormatDelay(min, max int, unit string) string {
	if unit == "" {
		unit = TimeUnitDays
	}
	switch {
	case min <= 0 && max <= 0:
		return ""
	case min == max || max <= 0:
		return fmt.Sprintf("%d %s", min, unit)
	case min <= 0:
		return fmt.Sprintf("%d %s", max, unit)
	default:
		return fmt.Sprintf("%d-%d %s", min, max, unit)
	}
}

type City struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required,max=120"`
	Category string `json:"category"`
	ZoneType string `json:"zoneType" validate:"required,oneof=dakar-ville banlieue"`
	Status   Status `json:"status" validate:"omitempty,oneof=active inactive"`
	Price    int64  `json:"price" validate:"gte=0"`
	IsFree   bool   `json:"isFree"`
	DeliveryWindow
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fee is the amount charged for a delivery to this city.
func (c City) Fee() int64 {
	if c.IsFree {
		return 0
	}
	return c.Price
}

type Region struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required,max=120"`
	Status     Status `json:"status" validate:"omitempty,oneof=active inactive"`
	Price      int64  `json:"price" validate:"gte=0"`
	MainCities string `json:"mainCities"`
	DeliveryWindow
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MainCityList splits the free-text mainCities field on commas.
func (r Region) MainCityList() []string {
	var out []string
	for _, c := range strings.Split(r.MainCities, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ZoneCountries is the list of countries an international zone serves.
// Payloads carry either ["France"] or [{"country":"France"}]; both decode
// to plain strings and always encode as strings.
type ZoneCountries []string

func (c *ZoneCountries) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("countries must be an array: %w", err)
	}

	out := make(ZoneCountries, 0, len(raw))
	for i, entry := range raw {
		switch v := entry.(type) {
		case nil:
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			name := firstString(v, "country", "name", "code")
			if name != "" {
				out = append(out, name)
			}
		default:
			return fmt.Errorf("countries[%d]: unsupported entry %T", i, entry)
		}
	}
	*c = out
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

type InternationalZone struct {
	ID        string        `json:"id"`
	Name      string        `json:"name" validate:"required,max=120"`
	Countries ZoneCountries `json:"countries" validate:"required,min=1,dive,required"`
	Status    Status        `json:"status" validate:"omitempty,oneof=active inactive"`
	Price     int64         `json:"price" validate:"gte=0"`
	DeliveryWindow
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Transporteur struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" validate:"required,max=120"`
	LogoURL       string    `json:"logoUrl" validate:"omitempty,url"`
	DeliveryZones []string  `json:"deliveryZones"`
	Status        Status    `json:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ZoneTarif is a carrier's price for one international zone.
type ZoneTarif struct {
	ID                        string        `json:"id"`
	ZoneID                    string        `json:"zoneId" validate:"required"`
	ZoneName                  string        `json:"zoneName"`
	TransporteurID            string        `json:"transporteurId" validate:"required"`
	TransporteurName          string        `json:"transporteurName"`
	Transporteur              *Transporteur `json:"transporteur,omitempty"`
	PrixTransporteur          int64         `json:"prixTransporteur" validate:"gte=0"`
	PrixStandardInternational int64         `json:"prixStandardInternational" validate:"gte=0"`
	DelaiLivraisonMin         int           `json:"delaiLivraisonMin" validate:"gte=0"`
	DelaiLivraisonMax         int           `json:"delaiLivraisonMax" validate:"gtefield=DelaiLivraisonMin"`
	Status                    Status        `json:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt                 time.Time     `json:"createdAt"`
	UpdatedAt                 time.Time     `json:"updatedAt"`
}

// DeliveryCatalog is an immutable snapshot of all delivery reference data.
type DeliveryCatalog struct {
	Cities        []City              `json:"cities"`
	Regions       []Region            `json:"regions"`
	Zones         []InternationalZone `json:"zones"`
	Transporteurs []Transporteur      `json:"transporteurs"`
	Tarifs        []ZoneTarif         `json:"tarifs"`
	LoadedAt      time.Time           `json:"loadedAt"`
}

// DeliveryInfo is the delivery snapshot persisted with an order.
type DeliveryInfo struct {
	DeliveryType     string `json:"deliveryType"`
	Country          string `json:"country"`
	CountryName      string `json:"countryName"`
	CityID           string `json:"cityId,omitempty"`
	CityName         string `json:"cityName,omitempty"`
	RegionID         string `json:"regionId,omitempty"`
	RegionName       string `json:"regionName,omitempty"`
	ZoneID           string `json:"zoneId,omitempty"`
	ZoneName         string `json:"zoneName,omitempty"`
	TransporteurID   string `json:"transporteurId,omitempty"`
	TransporteurName string `json:"transporteurName,omitempty"`
	TransporteurLogo string `json:"transporteurLogo,omitempty"`
	ZoneTarifID      string `json:"zoneTarifId,omitempty"`
	DeliveryFee      int64  `json:"deliveryFee"`
	DeliveryTime     string `json:"deliveryTime,omitempty"`

	Metadata DeliveryMeta `json:"metadata"`
}

type DeliveryMeta struct {
	MatchType         string          `json:"matchType,omitempty"`
	Query             string          `json:"query"`
	AvailableCarriers []CarrierOption `json:"availableCarriers,omitempty"`
	ResolvedAt        time.Time       `json:"resolvedAt"`
}

// DeliveryRepository persists delivery reference data.
type DeliveryRepository interface {
	ListCities(ctx context.Context) ([]City, error)
	GetCity(ctx context.Context, id string) (*City, error)
	CreateCity(ctx context.Context, city *City) error
	UpdateCity(ctx context.Context, city *City) error
	DeleteCity(ctx context.Context, id string) error
	SetCityStatus(ctx context.Context, id string, status Status) error

	ListRegions(ctx context.Context) ([]Region, error)
	GetRegion(ctx context.Context, id string) (*Region, error)
	CreateRegion(ctx context.Context, region *Region) error
	UpdateRegion(ctx context.Context, region *Region) error
	DeleteRegion(ctx context.Context, id string) error
	SetRegionStatus(ctx context.Context, id string, status Status) error

	ListZones(ctx context.Context) ([]InternationalZone, error)
	GetZone(ctx context.Context, id string) (*InternationalZone, error)
	CreateZone(ctx context.Context, zone *InternationalZone) error
	UpdateZone(ctx context.Context, zone *InternationalZone) error
	DeleteZone(ctx context.Context, id string) error
	SetZoneStatus(ctx context.Context, id string, status Status) error

	ListTransporteurs(ctx context.Context) ([]Transporteur, error)
	GetTransporteur(ctx context.Context, id string) (*Transporteur, error)
	CreateTransporteur(ctx context.Context, t *Transporteur) error
	UpdateTransporteur(ctx context.Context, t *Transporteur) error
	DeleteTransporteur(ctx context.Context, id string) error
	SetTransporteurStatus(ctx context.Context, id string, status Status) error

	ListTarifs(ctx context.Context) ([]ZoneTarif, error)
	GetTarif(ctx context.Context, id string) (*ZoneTarif, error)
	CreateTarif(ctx context.Context, t *ZoneTarif) error
	UpdateTarif(ctx context.Context, t *ZoneTarif) error
	DeleteTarif(ctx context.Context, id string) error
	SetTarifStatus(ctx context.Context, id string, status Status) error
	CountTarifsByZone(ctx context.Context, zoneID string) (int, error)
	CountTarifsByTransporteur(ctx context.Context, transporteurID string) (int, error)
}

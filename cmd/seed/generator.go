package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

var (
	dakarVille = []string{"Plateau", "Médina", "Fann", "Point E", "Mermoz", "Ouakam", "Ngor", "Yoff", "Almadies", "Grand Yoff", "Parcelles Assainies", "HLM"}
	banlieue   = []string{"Pikine", "Guédiawaye", "Thiaroye", "Keur Massar", "Rufisque", "Malika", "Yeumbeul", "Bargny"}
	regions    = map[string][]string{
		"Thiès":       {"Thiès", "Mbour", "Tivaouane"},
		"Saint-Louis": {"Saint-Louis", "Richard-Toll", "Dagana"},
		"Diourbel":    {"Diourbel", "Touba", "Mbacké"},
		"Kaolack":     {"Kaolack", "Nioro du Rip"},
		"Ziguinchor":  {"Ziguinchor", "Bignona", "Oussouye"},
		"Louga":       {"Louga", "Kébémer", "Linguère"},
		"Fatick":      {"Fatick", "Foundiougne", "Gossas"},
		"Tambacounda": {"Tambacounda", "Bakel", "Goudiry"},
	}
	zones = map[string][]string{
		"Afrique de l'Ouest": {"ML", "GN", "CI", "GM", "MR", "BF"},
		"Europe":             {"FR", "BE", "ES", "IT", "DE"},
		"Amérique du Nord":   {"US", "CA"},
	}
	carriers   = []string{"DHL Express", "Chronopost", "La Poste Sénégal", "FedEx"}
	categories = map[string][]string{
		"Vêtements":   {"Boubous", "T-shirts", "Pagnes"},
		"Accessoires": {"Sacs", "Bijoux"},
		"Maison":      {"Coussins", "Nappes"},
	}
)

// dataset is a consistent set of reference records; IDs are filled in by
// the repositories on insert.
type dataset struct {
	cities        []domain.City
	regions       []domain.Region
	zones         []domain.InternationalZone
	transporteurs []domain.Transporteur
	categories    []categorySeed
	vendors       []domain.User
	products      int
}

type categorySeed struct {
	parent   domain.Category
	children []domain.Category
}

type generator struct {
	f *gofakeit.Faker
}

func newGenerator(seed int64) *generator {
	return &generator{f: gofakeit.New(seed)}
}

// roundFCFA rounds to the nearest 500 FCFA, as shop prices are displayed.
func roundFCFA(v int) int64 {
	return int64((v+250)/500) * 500
}

func (g *generator) window(unit string, lo, hi int) domain.DeliveryWindow {
	min := g.f.Number(lo, hi)
	return domain.DeliveryWindow{
		DeliveryTimeMin:  min,
		DeliveryTimeMax:  min + g.f.Number(0, hi-lo+1),
		DeliveryTimeUnit: unit,
	}
}

func (g *generator) build(vendors, products int) dataset {
	var ds dataset

	for _, name := range dakarVille {
		ds.cities = append(ds.cities, domain.City{
			Name:           name,
			Category:       "Dakar",
			ZoneType:       domain.ZoneTypeDakarVille,
			Status:         domain.StatusActive,
			Price:          roundFCFA(g.f.Number(1000, 2000)),
			IsFree:         g.f.Number(1, 10) == 1,
			DeliveryWindow: g.window(domain.TimeUnitHours, 2, 6),
		})
	}
	for _, name := range banlieue {
		ds.cities = append(ds.cities, domain.City{
			Name:           name,
			Category:       "Banlieue",
			ZoneType:       domain.ZoneTypeBanlieue,
			Status:         domain.StatusActive,
			Price:          roundFCFA(g.f.Number(1500, 3000)),
			DeliveryWindow: g.window(domain.TimeUnitHours, 12, 24),
		})
	}

	for _, name := range slices.Sorted(maps.Keys(regions)) {
		ds.regions = append(ds.regions, domain.Region{
			Name:           name,
			Status:         domain.StatusActive,
			Price:          roundFCFA(g.f.Number(2500, 5000)),
			MainCities:     strings.Join(regions[name], ", "),
			DeliveryWindow: g.window(domain.TimeUnitDays, 1, 3),
		})
	}

	for _, name := range slices.Sorted(maps.Keys(zones)) {
		ds.zones = append(ds.zones, domain.InternationalZone{
			Name:           name,
			Countries:      domain.ZoneCountries(zones[name]),
			Status:         domain.StatusActive,
			Price:          roundFCFA(g.f.Number(10000, 30000)),
			DeliveryWindow: g.window(domain.TimeUnitDays, 3, 10),
		})
	}

	for _, name := range carriers {
		ds.transporteurs = append(ds.transporteurs, domain.Transporteur{
			Name:   name,
			Status: domain.StatusActive,
		})
	}

	for _, parent := range slices.Sorted(maps.Keys(categories)) {
		seed := categorySeed{parent: domain.Category{Name: parent, Slug: utils.GenerateSlug(parent)}}
		for i, child := range categories[parent] {
			seed.children = append(seed.children, domain.Category{
				Name:  child,
				Slug:  utils.GenerateSlug(child),
				Level: 1,
				Order: i,
			})
		}
		ds.categories = append(ds.categories, seed)
	}

	for i := 0; i < vendors; i++ {
		first, last := g.f.FirstName(), g.f.LastName()
		ds.vendors = append(ds.vendors, domain.User{
			Email:     fmt.Sprintf("vendeur%d@sunushop.test", i+1),
			Role:      domain.RoleVendor,
			FirstName: first,
			LastName:  last,
			Phone:     "+221 77 " + g.f.Numerify("### ## ##"),
		})
	}
	ds.products = products
	return ds
}

// tarif prices one carrier for one zone. The carrier price is at or below the
// zone's standard price so the storefront can show the savings.
func (g *generator) tarif(zone domain.InternationalZone, carrier domain.Transporteur) domain.ZoneTarif {
	discount := g.f.Number(0, 30)
	min := g.f.Number(2, 7)
	return domain.ZoneTarif{
		ZoneID:                    zone.ID,
		TransporteurID:            carrier.ID,
		PrixStandardInternational: zone.Price,
		PrixTransporteur:          roundFCFA(int(zone.Price) * (100 - discount) / 100),
		DelaiLivraisonMin:         min,
		DelaiLivraisonMax:         min + g.f.Number(1, 5),
		Status:                    domain.StatusActive,
	}
}

// product builds a catalog item under categoryID. When vendorID is set the
// item is a vendor design: not customizable, with a per-unit commission.
func (g *generator) product(categoryID string, vendorID *string) domain.Product {
	name := g.f.ProductName()
	price := roundFCFA(g.f.Number(3000, 60000))
	p := domain.Product{
		Name:           name,
		Slug:           utils.GenerateSlug(name) + "-" + g.f.LetterN(5),
		Description:    g.f.ProductDescription(),
		Price:          price,
		CategoryID:     &categoryID,
		Images:         []string{g.f.ImageURL(800, 800)},
		IsActive:       g.f.Number(1, 10) > 1,
		IsCustomizable: vendorID == nil && g.f.Bool(),
	}
	if g.f.Number(1, 4) == 1 {
		sale := roundFCFA(int(price) * g.f.Number(60, 90) / 100)
		if sale > 0 && sale < price {
			p.SalePrice = &sale
		}
	}
	if vendorID != nil {
		p.VendorID = vendorID
		p.IsVendorDesign = true
		// rounded down to a multiple of 50 FCFA
		p.DesignCommission = int64(int(price)*g.f.Number(5, 15)/100/50) * 50
	}
	return p
}

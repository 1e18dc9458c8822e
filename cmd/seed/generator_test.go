package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunushop-backend/internal/domain"
)

func TestBuildIsDeterministic(t *testing.T) {
	a := newGenerator(7).build(2, 10)
	b := newGenerator(7).build(2, 10)
	assert.Equal(t, a, b)
}

func TestBuildReferenceData(t *testing.T) {
	ds := newGenerator(1).build(3, 12)

	require.Len(t, ds.cities, len(dakarVille)+len(banlieue))
	for _, c := range ds.cities {
		assert.Contains(t, []string{domain.ZoneTypeDakarVille, domain.ZoneTypeBanlieue}, c.ZoneType)
		assert.Zero(t, c.Price%500, c.Name)
		assert.GreaterOrEqual(t, c.DeliveryTimeMax, c.DeliveryTimeMin)
	}

	require.Len(t, ds.regions, len(regions))
	assert.Equal(t, "Diourbel", ds.regions[0].Name)
	assert.Equal(t, []string{"Diourbel", "Touba", "Mbacké"}, ds.regions[0].MainCityList())

	for _, z := range ds.zones {
		assert.NotEmpty(t, z.Countries)
	}
	require.Len(t, ds.vendors, 3)
	assert.Equal(t, domain.RoleVendor, ds.vendors[0].Role)
	assert.Equal(t, 12, ds.products)
}

func TestTarifNeverAboveStandardPrice(t *testing.T) {
	g := newGenerator(3)
	zone := domain.InternationalZone{ID: "z1", Price: 25000}
	for i := 0; i < 50; i++ {
		tf := g.tarif(zone, domain.Transporteur{ID: "t1"})
		assert.LessOrEqual(t, tf.PrixTransporteur, tf.PrixStandardInternational)
		assert.Greater(t, tf.DelaiLivraisonMax, tf.DelaiLivraisonMin)
		assert.Equal(t, "z1", tf.ZoneID)
	}
}

func TestVendorDesignProducts(t *testing.T) {
	g := newGenerator(5)
	vendor := "v-1"
	for i := 0; i < 30; i++ {
		p := g.product("cat-1", &vendor)
		assert.True(t, p.IsVendorDesign)
		assert.False(t, p.IsCustomizable)
		assert.Positive(t, p.DesignCommission)
		if p.SalePrice != nil {
			assert.Less(t, *p.SalePrice, p.Price)
		}
	}

	p := g.product("cat-1", nil)
	assert.False(t, p.IsVendorDesign)
	assert.Nil(t, p.VendorID)
	assert.Equal(t, "cat-1", *p.CategoryID)
}

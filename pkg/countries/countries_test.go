package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup("fr")
	require.True(t, ok)
	assert.Equal(t, "France", c.NameFR)

	_, ok = Lookup("ZZ")
	assert.False(t, ok)
	assert.Equal(t, "ZZ", NameFR(" zz "))
	assert.Equal(t, "Sénégal", NameFR("SN"))
}

func TestCountryMatches(t *testing.T) {
	ci, _ := Lookup("CI")
	assert.True(t, ci.Matches("CI"))
	assert.True(t, ci.Matches("Côte d'Ivoire"))
	assert.True(t, ci.Matches("ivory coast"))
	assert.False(t, ci.Matches("Ghana"))

	us, _ := Lookup("US")
	assert.True(t, us.Matches("Etats-Unis"))
}

func TestSearch(t *testing.T) {
	res := Search("sen")
	require.NotEmpty(t, res)
	assert.Equal(t, "SN", res[0].Code)

	res = Search("guinee")
	codes := make([]string, 0, len(res))
	for _, c := range res {
		codes = append(codes, c.Code)
	}
	assert.Contains(t, codes, "GN")
	assert.Contains(t, codes, "GW")

	assert.Len(t, Search(""), len(table))
}

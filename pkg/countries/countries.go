// Package countries is the static country table behind the checkout
// country selector and international zone matching.
package countries

import (
	"sort"
	"strings"

	"sunushop-backend/pkg/utils"
)

type Country struct {
	Code   string `json:"code"`
	NameFR string `json:"name"`
	NameEN string `json:"nameEn"`
}

var table = []Country{
	{"SN", "Sénégal", "Senegal"},
	{"ML", "Mali", "Mali"},
	{"MR", "Mauritanie", "Mauritania"},
	{"GM", "Gambie", "Gambia"},
	{"GN", "Guinée", "Guinea"},
	{"GW", "Guinée-Bissau", "Guinea-Bissau"},
	{"CV", "Cap-Vert", "Cape Verde"},
	{"CI", "Côte d'Ivoire", "Ivory Coast"},
	{"BF", "Burkina Faso", "Burkina Faso"},
	{"NE", "Niger", "Niger"},
	{"TG", "Togo", "Togo"},
	{"BJ", "Bénin", "Benin"},
	{"GH", "Ghana", "Ghana"},
	{"NG", "Nigeria", "Nigeria"},
	{"SL", "Sierra Leone", "Sierra Leone"},
	{"LR", "Liberia", "Liberia"},
	{"CM", "Cameroun", "Cameroon"},
	{"GA", "Gabon", "Gabon"},
	{"CG", "Congo", "Republic of the Congo"},
	{"CD", "République démocratique du Congo", "Democratic Republic of the Congo"},
	{"TD", "Tchad", "Chad"},
	{"CF", "République centrafricaine", "Central African Republic"},
	{"MA", "Maroc", "Morocco"},
	{"DZ", "Algérie", "Algeria"},
	{"TN", "Tunisie", "Tunisia"},
	{"EG", "Égypte", "Egypt"},
	{"KE", "Kenya", "Kenya"},
	{"ZA", "Afrique du Sud", "South Africa"},
	{"RW", "Rwanda", "Rwanda"},
	{"ET", "Éthiopie", "Ethiopia"},
	{"MG", "Madagascar", "Madagascar"},
	{"FR", "France", "France"},
	{"BE", "Belgique", "Belgium"},
	{"CH", "Suisse", "Switzerland"},
	{"LU", "Luxembourg", "Luxembourg"},
	{"DE", "Allemagne", "Germany"},
	{"IT", "Italie", "Italy"},
	{"ES", "Espagne", "Spain"},
	{"PT", "Portugal", "Portugal"},
	{"NL", "Pays-Bas", "Netherlands"},
	{"GB", "Royaume-Uni", "United Kingdom"},
	{"IE", "Irlande", "Ireland"},
	{"AT", "Autriche", "Austria"},
	{"SE", "Suède", "Sweden"},
	{"NO", "Norvège", "Norway"},
	{"DK", "Danemark", "Denmark"},
	{"PL", "Pologne", "Poland"},
	{"GR", "Grèce", "Greece"},
	{"US", "États-Unis", "United States"},
	{"CA", "Canada", "Canada"},
	{"BR", "Brésil", "Brazil"},
	{"MX", "Mexique", "Mexico"},
	{"AR", "Argentine", "Argentina"},
	{"HT", "Haïti", "Haiti"},
	{"CN", "Chine", "China"},
	{"JP", "Japon", "Japan"},
	{"IN", "Inde", "India"},
	{"TR", "Turquie", "Turkey"},
	{"AE", "Émirats arabes unis", "United Arab Emirates"},
	{"SA", "Arabie saoudite", "Saudi Arabia"},
	{"QA", "Qatar", "Qatar"},
	{"LB", "Liban", "Lebanon"},
	{"AU", "Australie", "Australia"},
}

var byCode = func() map[string]Country {
	m := make(map[string]Country, len(table))
	for _, c := range table {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the country for an ISO alpha-2 code, case-insensitive.
func Lookup(code string) (Country, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// NameFR returns the French display name, or the code itself when unknown.
func NameFR(code string) string {
	if c, ok := Lookup(code); ok {
		return c.NameFR
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether a free-text zone entry designates this country,
// by code or by French or English name.
func (c Country) Matches(entry string) bool {
	if strings.EqualFold(strings.TrimSpace(entry), c.Code) {
		return true
	}
	n := utils.NormalizeCityName(entry)
	return n != "" && (n == utils.NormalizeCityName(c.NameFR) || n == utils.NormalizeCityName(c.NameEN))
}

// All returns the table sorted by French name.
func All() []Country {
	out := make([]Country, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool {
		return utils.NormalizeCityName(out[i].NameFR) < utils.NormalizeCityName(out[j].NameFR)
	})
	return out
}

// Search filters by code or by a prefix/substring of either name.
// Prefix matches are listed first.
func Search(query string) []Country {
	q := utils.NormalizeCityName(query)
	if q == "" {
		return All()
	}

	var prefix, contains []Country
	for _, c := range All() {
		fr, en := utils.NormalizeCityName(c.NameFR), utils.NormalizeCityName(c.NameEN)
		switch {
		case strings.EqualFold(c.Code, q), strings.HasPrefix(fr, q), strings.HasPrefix(en, q):
			prefix = append(prefix, c)
		case strings.Contains(fr, q), strings.Contains(en, q):
			contains = append(contains, c)
		}
	}
	return append(prefix, contains...)
}

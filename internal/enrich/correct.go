package enrich

// countryCorrections maps the name variants Vitibrasil publishes to the
// canonical forms used by the continent table. Exact-match replacement only.
var countryCorrections = map[string]string{
	"Alemanha, República Democrática": "Alemanha",
	"Cayman, Ilhas":                   "Ilhas Cayman",
	"Cocos (Keeling), Ilhas":          "Ilhas Cocos",
	"Eslovaca, Republica":             "Eslováquia",
	"Marshall, Ilhas":                 "Ilhas Marshall",
	"Tcheca, República":               "República Tcheca",
	"Taiwan (FORMOSA)":                "Taiwan",
	"Coreia, Republica Sul":           "Coréia do Sul",
	"Taiwan (Formosa)":                "Taiwan",
}

// CorrectCountry canonicalizes a country name. Names without a known variant
// pass through unchanged, which makes the correction idempotent.
func CorrectCountry(name string) string {
	if canonical, ok := countryCorrections[name]; ok {
		return canonical
	}
	return name
}

package importer

import (
	"regexp"
	"strings"
)

// DefaultUnit is used when a product name carries no quantity token.
const DefaultUnit = "each"

var unitTokenPattern = regexp.MustCompile(
	`(?i)(\d+(?:[.,]\d+)?)\s*(kgs?|kilos?|grs?|g|mls?|lts?|litros?|liters?|l|oz|lbs?|packs?|pk|paq|bottles?|bot|unid|units?|un)\b`)

// canonicalUnits maps every accepted abbreviation variant to its canonical
// unit string.
var canonicalUnits = map[string]string{
	"g": "g", "gr": "g", "grs": "g",
	"kg": "kg", "kgs": "kg", "kilo": "kg", "kilos": "kg",
	"ml": "ml", "mls": "ml",
	"l": "l", "lt": "l", "lts": "l", "litro": "l", "litros": "l", "liter": "l", "liters": "l",
	"oz": "oz",
	"lb": "lb", "lbs": "lb",
	"pack": "pack", "packs": "pack", "pk": "pack", "paq": "pack",
	"bottle": "bottle", "bottles": "bottle", "bot": "bottle",
	"un": "each", "unid": "each", "unit": "each", "units": "each",
}

// packagingUnits are written with a space between amount and unit
// ("2 pack"); mass and volume units are written without one ("500g").
var packagingUnits = map[string]bool{
	"pack":   true,
	"bottle": true,
}

// ExtractUnit scans a product name for an embedded quantity+unit token and
// returns the canonical unit string, defaulting to "each".
func ExtractUnit(name string) string {
	match := unitTokenPattern.FindStringSubmatch(name)
	if match == nil {
		return DefaultUnit
	}

	amount := strings.ReplaceAll(match[1], ",", ".")
	unit, ok := canonicalUnits[strings.ToLower(match[2])]
	if !ok || unit == DefaultUnit {
		return DefaultUnit
	}

	if packagingUnits[unit] {
		return amount + " " + unit
	}
	return amount + unit
}

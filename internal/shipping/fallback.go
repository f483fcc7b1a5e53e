package shipping

import (
	"github.com/shopspring/decimal"
	"github.com/xavierca1/rog-store/internal/entity"
)

const (
	ServicePAC   = "PAC"
	ServiceSEDEX = "SEDEX"
)

// Region is one bracket of the fallback table.
type Region struct {
	Name      string
	PACRate   decimal.Decimal
	SEDEXRate decimal.Decimal
	PACDays   int
}

// Capitais e regiões metropolitanas.
var metroPrefixes = map[int]bool{
	10: true, 11: true, 12: true, 13: true,
	20: true, 21: true, 22: true,
	30: true, 40: true, 50: true, 60: true, 70: true, 80: true, 90: true,
}

var (
	regionMetro  = Region{Name: "capital", PACRate: decimal.NewFromInt(20), SEDEXRate: decimal.NewFromInt(35), PACDays: 3}
	regionSouth  = Region{Name: "sudeste", PACRate: decimal.NewFromInt(28), SEDEXRate: decimal.NewFromInt(48), PACDays: 5}
	regionMiddle = Region{Name: "nordeste", PACRate: decimal.NewFromInt(35), SEDEXRate: decimal.NewFromInt(60), PACDays: 8}
	regionFar    = Region{Name: "norte", PACRate: decimal.NewFromInt(45), SEDEXRate: decimal.NewFromInt(75), PACDays: 12}
)

// RegionFor maps a two-digit CEP prefix to its bracket.
// Prefixes above 65 that are not capitals fall in the most expensive bracket.
func RegionFor(prefix int) Region {
	switch {
	case metroPrefixes[prefix]:
		return regionMetro
	case prefix <= 39:
		return regionSouth
	case prefix <= 65:
		return regionMiddle
	default:
		return regionFar
	}
}

// SedexDays is max(1, ceil(pacDays / 2)).
func SedexDays(pacDays int) int {
	days := (pacDays + 1) / 2
	if days < 1 {
		return 1
	}
	return days
}

// FallbackRates returns exactly two options (PAC and SEDEX) for a normalized CEP.
// A matching admin-maintained rate overrides the built-in brackets.
func FallbackRates(zip string, table []*entity.ShippingRate) []entity.ShippingOption {
	prefix := Prefix(zip)
	region := RegionFor(prefix)
	for _, r := range table {
		if r != nil && r.Covers(prefix) {
			region = Region{Name: r.Name, PACRate: r.PACRate, SEDEXRate: r.SEDEXRate, PACDays: r.PACDays}
			break
		}
	}

	return []entity.ShippingOption{
		{
			ID:           "fallback-pac",
			Rate:         region.PACRate,
			DeliveryDays: region.PACDays,
			ServiceType:  ServicePAC,
			Name:         "PAC",
			ZipCode:      zip,
		},
		{
			ID:           "fallback-sedex",
			Rate:         region.SEDEXRate,
			DeliveryDays: SedexDays(region.PACDays),
			ServiceType:  ServiceSEDEX,
			Name:         "SEDEX",
			ZipCode:      zip,
		},
	}
}

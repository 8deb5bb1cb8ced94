package usecase

import (
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// maxPrice — верхняя граница цены, защита от мусорных значений.
var maxPrice = decimal.NewFromInt(1_000_000_000)

// ParsePrice нормализует текстовую цену вида "1,234.50" или "1234.50".
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, e.ErrInvalidPrice
	}

	// Разделители тысяч отбрасываются до разбора
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.InexactFloat64(), nil
}

package shipping

import (
	"strconv"

	"github.com/xavierca1/rog-store/internal/entity"
)

// NormalizeZip strips everything but digits and rejects CEPs that are not exactly 8 digits long.
func NormalizeZip(raw string) (string, error) {
	digits := make([]byte, 0, 8)
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) != 8 {
		return "", entity.ErrInvalidZipCode
	}
	return string(digits), nil
}

// Prefix returns the first two digits of a normalized CEP.
func Prefix(zip string) int {
	if len(zip) < 2 {
		return 0
	}
	p, _ := strconv.Atoi(zip[:2])
	return p
}

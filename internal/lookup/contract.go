// Package lookup waits for a contract to show up in the bridge cache.
package lookup

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinContractDigits is the shortest accepted contract number.
const MinContractDigits = 6

// ErrInvalidContract is returned for identifiers with too few digits.
var ErrInvalidContract = errors.New("invalid contract")

// NormalizeContract strips every non-digit from raw and requires at least
// MinContractDigits to remain.
func NormalizeContract(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) < MinContractDigits {
		return "", fmt.Errorf("%w: %q", ErrInvalidContract, strings.TrimFunc(raw, unicode.IsSpace))
	}
	return digits, nil
}

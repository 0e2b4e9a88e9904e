// Package identity validates Brazilian tax documents (CPF and CNPJ).
// Every function here is total: malformed input yields false or an empty
// string, never a panic or an error.
package identity

import "github.com/backoffice-ledger/internal/domain/shared"

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize strips every non-digit character from doc.
func Normalize(doc string) string {
	digits := make([]byte, 0, len(doc))
	for i := 0; i < len(doc); i++ {
		if doc[i] >= '0' && doc[i] <= '9' {
			digits = append(digits, doc[i])
		}
	}
	return string(digits)
}

// ValidateCPF reports whether doc carries a valid 11-digit CPF, ignoring punctuation.
func ValidateCPF(doc string) bool {
	digits := Normalize(doc)
	if len(digits) != 11 || repeated(digits) {
		return false
	}

	first := checkDigit(digits[:9], descending(10, 9))
	second := checkDigit(digits[:9]+string(rune('0'+first)), descending(11, 10))

	return int(digits[9]-'0') == first && int(digits[10]-'0') == second
}

// ValidateCNPJ reports whether doc carries a valid 14-digit CNPJ, ignoring punctuation.
func ValidateCNPJ(doc string) bool {
	digits := Normalize(doc)
	if len(digits) != 14 || repeated(digits) {
		return false
	}

	first := checkDigit(digits[:12], cnpjFirstWeights)
	second := checkDigit(digits[:12]+string(rune('0'+first)), cnpjSecondWeights)

	return int(digits[12]-'0') == first && int(digits[13]-'0') == second
}

// Validate checks doc against the algorithm matching the person type.
func Validate(personType shared.PersonType, doc string) bool {
	switch personType {
	case shared.PersonTypeIndividual:
		return ValidateCPF(doc)
	case shared.PersonTypeOrganization:
		return ValidateCNPJ(doc)
	}
	return false
}

// checkDigit computes a modulus-11 check digit; remainders below 2 map to 0.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func descending(from, n int) []int {
	weights := make([]int, n)
	for i := range weights {
		weights[i] = from - i
	}
	return weights
}

func repeated(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

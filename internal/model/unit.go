package model

import (
	"fmt"
	"strings"
)

// Unit is the face-amount granularity one rate-table entry prices.
// Keep these values stable; they appear in rate files and CSV output.
type Unit string

const (
	UnitPer10K Unit = "per_10k"
	UnitPer1K  Unit = "per_1k"
	UnitPer1   Unit = "per_1"
)

// Sex is the rate-table sex key, always normalized to upper case.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// NormalizeSex trims and upper-cases s without validating it.
func NormalizeSex(s string) Sex {
	return Sex(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseSex accepts M or F in any case.
func ParseSex(s string) (Sex, error) {
	switch sex := NormalizeSex(s); sex {
	case SexMale, SexFemale:
		return sex, nil
	default:
		return "", fmt.Errorf("sex must be M or F, got %q", s)
	}
}

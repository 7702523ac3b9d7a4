package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseProviderNumber converts the string figures providers emit into a
// float. "None", "-" and anything unparsable become nil.
func parseProviderNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "None", "-", "null", "N/A":
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

func sumNullable(values ...*float64) *float64 {
	var (
		total float64
		found bool
	)
	for _, v := range values {
		if v == nil {
			continue
		}
		total += *v
		found = true
	}
	if !found {
		return nil
	}
	return &total
}

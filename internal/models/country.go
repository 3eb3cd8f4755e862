package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCountry is returned for any name outside the country table.
var ErrUnknownCountry = errors.New("unknown country")

var countryCodes = map[string]string{
	"ukraine":  "UKR",
	"slovakia": "SVK",
	"poland":   "POL",
	"romania":  "ROU",
}

// LookupCountryCode maps a country name to its ISO 3166-1 alpha-3 code.
func LookupCountryCode(name string) (string, error) {
	code, ok := countryCodes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}
	return code, nil
}

// CountryNames returns the known country names in alphabetical order.
func CountryNames() []string {
	names := make([]string, 0, len(countryCodes))
	for name := range countryCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

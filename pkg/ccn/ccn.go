// Package ccn normalizes CMS certification numbers and the drifting
// column names found across yearly CMS extracts.
package ccn

import (
	"strings"
)

// Normalize returns the canonical 6-character zero-padded CCN used for all
// cross-dataset joins. Non-alphanumeric characters are stripped; an empty
// result means the row carries no usable CCN and should be dropped.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

// SynthesizeKey derives a stable facility key from a name when no CCN exists.
func SynthesizeKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("name:")
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// fieldAliases maps a canonical field name to the column-name variants seen
// across CMS extract vintages. Kept as one table so column drift is handled
// in a single place rather than inline candidate lists.
var fieldAliases = map[string][]string{
	"ccn":                 {"ccn", "cms_certification_number", "federal_provider_number", "provnum", "provider_id"},
	"name":                {"provider_name", "provname", "facility_name", "name"},
	"address":             {"provider_address", "address", "street_address", "address_line_1"},
	"city":                {"city_town", "city", "provider_city"},
	"state":               {"state", "provider_state", "state_abbr"},
	"zip":                 {"zip_code", "zip", "provider_zip_code"},
	"measure_code":        {"measure_code", "msr_cd", "measure_cd"},
	"measure_value":       {"score", "measure_value", "observed_score", "adjusted_score"},
	"scope_severity":      {"scope_severity_code", "scope_severity", "deficiency_severity"},
	"fine_amount":         {"fine_amount", "fine_amt", "penalty_amount"},
	"penalty_type":        {"penalty_type", "pnlty_type"},
	"deficiency_category": {"deficiency_category", "category", "deficiency_tag_category"},
	"infection_control":   {"infection_control_deficiency", "infection_control"},
}

// Field resolves a canonical field from a row whose column names may come
// from any known vintage. Returns the first non-empty match.
func Field(row map[string]string, canonical string) string {
	aliases, ok := fieldAliases[canonical]
	if !ok {
		return strings.TrimSpace(row[canonical])
	}
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// GeocodeKey builds the persistent geocode cache key for a hospital.
func GeocodeKey(name, address, city, state, zip string) string {
	parts := []string{name, address, city, state, zip}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

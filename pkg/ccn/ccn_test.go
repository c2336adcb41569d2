package ccn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ZeroPadsToSixDigits(t *testing.T) {
	assert.Equal(t, "015009", Normalize("15009"))
	assert.Equal(t, "015009", Normalize("015009"))
	assert.Equal(t, "015009", Normalize(" 15009 "))
	assert.Equal(t, "015009", Normalize("15-009"))
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "", Normalize("--"))
}

func TestNormalize_AlphanumericCCN(t *testing.T) {
	// Some swing-bed CCNs carry a letter in the third position.
	assert.Equal(t, "01A009", Normalize("01a009"))
}

func TestSynthesizeKey(t *testing.T) {
	assert.Equal(t, "name:oak-ridge-care-center", SynthesizeKey("Oak Ridge Care Center"))
	assert.Equal(t, "name:st-mary-s", SynthesizeKey("  St. Mary's "))
	assert.Equal(t, "", SynthesizeKey(""))
}

func TestField_ResolvesAliases(t *testing.T) {
	row := map[string]string{
		"provnum":       "15009",
		"provider_name": "Oak Ridge",
		"msr_cd":        "453",
	}
	assert.Equal(t, "15009", Field(row, "ccn"))
	assert.Equal(t, "Oak Ridge", Field(row, "name"))
	assert.Equal(t, "453", Field(row, "measure_code"))
	assert.Equal(t, "", Field(row, "fine_amount"))
}

func TestField_SkipsEmptyVariants(t *testing.T) {
	row := map[string]string{
		"ccn":     "",
		"provnum": "42",
	}
	assert.Equal(t, "42", Field(row, "ccn"))
}

func TestGeocodeKey(t *testing.T) {
	key := GeocodeKey("General Hospital", "1 Main St", "Springfield", "IL", "62701")
	assert.Equal(t, "general hospital|1 main st|springfield|il|62701", key)
}

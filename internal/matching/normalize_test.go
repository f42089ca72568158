package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNameTrimsAndFolds(t *testing.T) {
	assert.Equal(t, NormalizeName("  Lapte Zuzu "), NormalizeName("LAPTE ZUZU"))
	assert.Equal(t, "brânză", NormalizeName("Brânză"))
}

func TestSameNameCaseInsensitive(t *testing.T) {
	assert.True(t, SameName("Lapte zuzu", "LAPTE ZUZU"))
	assert.True(t, SameName(" Banane", "banane "))
}

func TestSameNameExactMatchOnly(t *testing.T) {
	// Near-duplicates are distinct goods: no fuzzy matching.
	assert.False(t, SameName("Lapte  zuzu", "Lapte zuzu"))
	assert.False(t, SameName("Branza", "Brânză"))
	assert.False(t, SameName("Lapte zuzu 1l", "Lapte zuzu"))
}

func TestNormalizeStoreName(t *testing.T) {
	assert.Equal(t, "Lidl", NormalizeStoreName("lidl"))
	assert.Equal(t, "Lidl", NormalizeStoreName("LIDL"))
	assert.Equal(t, "Mega_image", NormalizeStoreName("mega_image"))
	assert.Equal(t, "", NormalizeStoreName("  "))
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "branza", RemoveDiacritics("brânză"))
	assert.Equal(t, "si tara", RemoveDiacritics("și țară"))
	assert.Equal(t, "Stefan", RemoveDiacritics("Ștefan"))
}

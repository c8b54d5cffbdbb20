package analysis

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "Lump Sum", "Lump Sum"},
		{"trims and collapses spaces", "  Lump   Sum \t", "Lump Sum"},
		{"em dash", "Design\u2014Build", "Design-Build"},
		{"en dash", "Short\u2013term", "Short-term"},
		{"minus sign", "\u22121", "-1"},
		{"figure dash", "a\u2012b", "a-b"},
		{"no-break space", "Very\u00a0High", "Very High"},
		{"thin and hair spaces", "A\u2009B\u200aC", "A B C"},
		{"zero-width space at the edge", "\u200bHigh", "High"},
		{"compatibility forms decompose", "\ufb01nance", "finance"},
		{"newlines collapse", "Cost\nPlus", "Cost Plus"},
		{"empty", "", ""},
		{"only whitespace", " \u00a0\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeNullable(t *testing.T) {
	assert.Nil(t, NormalizeNullable(nil))

	s := "  Co\u2013Located "
	got := NormalizeNullable(&s)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Co-Located", *got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	piece := gen.OneGenOf(
		gen.AlphaString(),
		gen.NumString(),
		gen.OneConstOf(" ", "  ", "\t", "\u00a0", "\u2009", "\u200a", "\u200b"),
		gen.OneConstOf("-", "\u2014", "\u2013", "\u2212", "\u2012"),
		gen.OneConstOf("&", "+", "(", ")", "\ufb01", "\u00e9"),
	)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(parts []string) bool {
			s := strings.Join(parts, "")
			once := Normalize(s)
			return Normalize(once) == once
		},
		gen.SliceOf(piece),
	))

	properties.Property("output has no edge or repeated whitespace", prop.ForAll(
		func(parts []string) bool {
			out := Normalize(strings.Join(parts, ""))
			return out == strings.TrimSpace(out) && !strings.Contains(out, "  ")
		},
		gen.SliceOf(piece),
	))

	properties.TestingRun(t)
}

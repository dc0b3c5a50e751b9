package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateForCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		category string
		want     string
	}{
		{"exact key", "Telefonannahme", "<h2>Telefonannahme"},
		{"substring", "Neue Arbeitsanweisungen für das Labor", "<h2>Arbeitsanweisung"},
		{"case insensitive", "TELEFONANNAHME intern", "<h2>Telefonannahme"},
		{"patient intake", "Patientenaufnahme Notfall", "<h2>Patientenaufnahme"},
		{"unknown category", "Datenschutz", "<h2>[Titel]"},
		{"empty category", "", "<h2>[Titel]"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := TemplateForCategory(tc.category)
			assert.True(t, strings.HasPrefix(got, tc.want),
				"template for %q should start with %q, got %q", tc.category, tc.want, got[:min(len(got), 40)])
		})
	}
}

func TestTemplateOrderPrefersFirstMatch(t *testing.T) {
	t.Parallel()

	// A category naming two known keys resolves to the earlier table entry.
	got := TemplateForCategory("Arbeitsanweisung zur Telefonannahme")
	assert.True(t, strings.HasPrefix(got, "<h2>Arbeitsanweisung"))
}

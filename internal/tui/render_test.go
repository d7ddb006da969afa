package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rzbill/scrollback/internal/source"
)

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Ada Lovelace":     "AL",
		"ada l. lovelace":  "AL",
		"Grace":            "G",
		"  ":               "?",
		"émile zola":       "ÉZ",
		"Kurt A. B. Gödel": "KG",
	}
	for in, want := range cases {
		assert.Equal(t, want, Initials(in), in)
	}
}

func TestBadgeColorIsStable(t *testing.T) {
	ref := "//www.gravatar.com/avatar/0cc175b9c0f1b6a831c399e269772661"
	assert.Equal(t, BadgeColor(ref), BadgeColor(ref))
	assert.Contains(t, badgePalette, BadgeColor(ref))
	assert.Contains(t, badgePalette, BadgeColor(""))
}

func TestRenderHeaderAndBody(t *testing.T) {
	r := NewRenderer(DefaultStyles())
	rec := source.Record{ID: 42, Author: "Ada Lovelace", Body: "hello there"}

	view := r.Render(rec, 60)
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "AL")
	assert.Contains(t, lines[0], "Ada Lovelace")
	assert.Contains(t, lines[0], "#42")
	assert.Contains(t, lines[1], "hello there")
	assert.Equal(t, 2, r.Measure(rec, view))
}

func TestRenderEmptyBodyIsOneLine(t *testing.T) {
	r := NewRenderer(DefaultStyles())
	rec := source.Record{ID: 7, Author: "Grace Hopper"}
	assert.Equal(t, 1, r.Measure(rec, r.Render(rec, 60)))
}

func TestRenderWrapsToWidth(t *testing.T) {
	r := NewRenderer(DefaultStyles())
	rec := source.Record{ID: 1, Author: "Ada", Body: strings.Repeat("lorem ", 10)}

	narrow := r.Measure(rec, r.Render(rec, 20))
	wide := r.Measure(rec, r.Render(rec, 200))
	assert.Equal(t, 2, wide)
	assert.Greater(t, narrow, 3)
}

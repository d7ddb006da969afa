package tui

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/rzbill/scrollback/internal/source"
)

// badgeWidth is the rendered width of an avatar badge plus its gap.
const badgeWidth = 5

// badgePalette holds the ANSI 256 background colours avatars are drawn with.
var badgePalette = []lipgloss.Color{
	"24", "30", "36", "62", "66", "96", "99", "130", "132", "136", "166", "172",
}

// Styles controls how records and chrome are drawn.
type Styles struct {
	Badge     lipgloss.Style
	Author    lipgloss.Style
	ID        lipgloss.Style
	Body      lipgloss.Style
	Track     lipgloss.Style
	Thumb     lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
}

// DefaultStyles returns the stock ANSI-256 palette.
func DefaultStyles() Styles {
	return Styles{
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
		Author:    lipgloss.NewStyle().Bold(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Body:      lipgloss.NewStyle(),
		Track:     lipgloss.NewStyle().Faint(true),
		Thumb:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Status:    lipgloss.NewStyle().Reverse(true),
		StatusErr: lipgloss.NewStyle().Reverse(true).Foreground(lipgloss.Color("203")),
	}
}

// Renderer draws records as a badge and header line followed by the wrapped
// body, indented under the author.
type Renderer struct {
	styles Styles
}

// NewRenderer returns a renderer drawing with styles.
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render implements viewport.RenderFunc. A width of zero disables wrapping.
func (r *Renderer) Render(rec source.Record, width int) string {
	badge := r.styles.Badge.
		Background(BadgeColor(rec.AvatarRef)).
		Render(" " + padInitials(Initials(rec.Author)) + " ")
	header := badge + " " + r.styles.Author.Render(rec.Author) + " " +
		r.styles.ID.Render("#"+strconv.FormatUint(rec.ID, 10))

	if strings.TrimSpace(rec.Body) == "" {
		return header
	}
	body := r.styles.Body.PaddingLeft(badgeWidth)
	if width > badgeWidth {
		body = body.Width(width)
	}
	return header + "\n" + body.Render(rec.Body)
}

// Measure implements viewport.MeasureFunc.
func (r *Renderer) Measure(_ source.Record, view string) int {
	return lipgloss.Height(view)
}

// Initials returns up to two upper-case initials: the first letters of the
// first and last words of name.
func Initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.'
	})
	if len(words) == 0 {
		return "?"
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	out := string(unicode.ToUpper(first))
	if len(words) > 1 {
		last, _ := utf8.DecodeRuneInString(words[len(words)-1])
		out += string(unicode.ToUpper(last))
	}
	return out
}

func padInitials(s string) string {
	if utf8.RuneCountInString(s) < 2 {
		return s + " "
	}
	return s
}

// BadgeColor picks a stable palette colour for an avatar reference.
func BadgeColor(ref string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ref))
	return badgePalette[h.Sum32()%uint32(len(badgePalette))]
}

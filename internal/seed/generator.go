// Package seed produces random demo messages and bulk loads them into a
// store.
package seed

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/rzbill/scrollback/internal/source"
)

// MaxSentences bounds the sentences in one body. A body may be empty.
const MaxSentences = 6

var (
	firstNames = []string{
		"Ada", "Alan", "Barbara", "Chloé", "Dmitri", "Edsger", "Frances", "Grace",
		"Hedy", "Ivan", "Joan", "Ken", "Leslie", "Margaret", "Niklaus", "Océane",
		"Per", "Radia", "Søren", "Tim", "Ursula", "Vint", "Whitfield", "Yukihiro",
	}
	lastNames = []string{
		"Allen", "Backus", "Cerf", "Dijkstra", "Engelbart", "Floyd", "Goldberg",
		"Hopper", "Iverson", "Jones", "Knuth", "Lamport", "Liskov", "McCarthy",
		"Nygaard", "Perlman", "Ritchie", "Sammet", "Thompson", "Wirth", "Žižek",
	}
	// Some words carry decomposed accents; output is NFC normalized.
	words = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
		"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
		"et", "dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam",
		"quis", "nostrud", "exercitation", "ullamco", "laboris", "nisi",
		"aliquip", "ex", "ea", "commodo", "consequat", "cafe\u0301",
		"re\u0301sume\u0301", "nai\u0308ve", "fac\u0327ade", "scroll", "window",
	}
)

// Generator creates random drafts. It is deterministic for a given seed and
// not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator whose output depends only on seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Name returns "First Last", with a middle initial half of the time.
func (g *Generator) Name() string {
	first := g.pick(firstNames)
	last := g.pick(lastNames)
	if g.rng.Intn(2) == 0 {
		return norm.NFC.String(first + " " + last)
	}
	middle := string(rune('A' + g.rng.Intn(26)))
	return norm.NFC.String(first + " " + middle + ". " + last)
}

// Body returns a paragraph of zero to MaxSentences sentences.
func (g *Generator) Body() string {
	n := g.rng.Intn(MaxSentences + 1)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = g.sentence()
	}
	return norm.NFC.String(strings.Join(sentences, " "))
}

func (g *Generator) sentence() string {
	n := 4 + g.rng.Intn(12)
	ws := make([]string, n)
	for i := range ws {
		ws[i] = g.pick(words)
	}
	ws[0] = strings.ToUpper(ws[0][:1]) + ws[0][1:]
	return strings.Join(ws, " ") + "."
}

// Avatar returns a gravatar style reference derived from a random uuid.
func (g *Generator) Avatar() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand never fails to read.
		id = uuid.New()
	}
	sum := md5.Sum([]byte(id.String()))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}

// Draft returns one random message.
func (g *Generator) Draft() source.Draft {
	return source.Draft{Author: g.Name(), Body: g.Body(), AvatarRef: g.Avatar()}
}

func (g *Generator) pick(from []string) string {
	return from[g.rng.Intn(len(from))]
}

// Package blockid mints the short tokens written into notes as `^id` block anchors.
package blockid

import (
	"math/rand/v2"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/util/sets"
)

const (
	// Length is the number of characters in a generated id.
	Length = 6

	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// maxAttempts bounds redraws when avoiding known ids.
	maxAttempts = 32
)

// Generator produces random block ids. Each id is drawn independently; no
// uniqueness is guaranteed unless Unique is used.
type Generator struct {
	intN func(n int) int
}

// New returns a generator backed by the runtime-seeded global source.
func New() *Generator {
	return &Generator{intN: rand.IntN}
}

// NewWithSource returns a generator drawing from r. Useful for deterministic tests.
func NewWithSource(r *rand.Rand) *Generator {
	return &Generator{intN: r.IntN}
}

// Generate returns a fresh Length-character alphanumeric id.
func (g *Generator) Generate() string {
	var sb strings.Builder
	sb.Grow(Length)
	for range Length {
		sb.WriteByte(alphabet[g.intN(len(alphabet))])
	}
	return sb.String()
}

// Unique returns an id not present in known. After maxAttempts collisions it
// gives up and returns the last draw.
func (g *Generator) Unique(known sets.Set[string]) string {
	id := g.Generate()
	for attempt := 1; attempt < maxAttempts && known.Has(id); attempt++ {
		id = g.Generate()
	}
	return id
}

// Package ids generates unique identifiers for operations, queue items
// and conflict records. The generator is injectable so tests can use
// predictable sequences.
package ids

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator interface {
	NewID() string
}

// Default returns the standard generator: a random UUID, with a
// time+random fallback when the system RNG is unavailable.
func Default() Generator {
	return defaultGenerator{}
}

type defaultGenerator struct{}

func (defaultGenerator) NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// No crypto RNG; a timestamp plus math/rand suffix is unique
		// enough for client-local identifiers.
		return fmt.Sprintf("%d-%06x", time.Now().UnixNano(), rand.Intn(1<<24))
	}
	return id.String()
}

// Sequence returns a generator producing "<prefix>-1", "<prefix>-2", …
// Intended for tests.
func Sequence(prefix string) Generator {
	return &sequenceGenerator{prefix: prefix}
}

type sequenceGenerator struct {
	prefix string
	n      int
}

func (g *sequenceGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Package identity generates external record identifiers without a central
// sequence.
//
// An id has the form "id_<random>_<millis>" where <random> is randomLength
// base-36 characters from crypto/rand and <millis> is the wall-clock time in
// milliseconds. The timestamp part never goes backwards within a Generator.
// Uniqueness is probabilistic: callers retry an insert once on a collision.
package identity

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	prefix       = "id_"
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomLength = 9
)

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
	alphabetSize         = big.NewInt(int64(len(alphabet)))
)

// Generator produces ids. It is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	lastTime int64
	now      func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate returns an id from the process-wide generator.
func Generate() string {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator.Generate()
}

func (g *Generator) Generate() string {
	millis := g.nextMillis()

	var b strings.Builder
	b.Grow(len(prefix) + randomLength + 1 + 13)
	b.WriteString(prefix)
	b.WriteString(randomBase36(randomLength))
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(millis, 10))
	return b.String()
}

func (g *Generator) nextMillis() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	// clock moved backwards; keep the last value
	if now < g.lastTime {
		now = g.lastTime
	}
	g.lastTime = now
	return now
}

func randomBase36(n int) string {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic("identity: crypto/rand unavailable: " + err.Error())
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}

package usecase

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/polkiloo/orderengine/internal/config"
)

// OrderNumberGenerator produces PREFIX-YYYYMMDD-NNNN candidates.
// Only 10,000 suffixes exist per day, so callers must bound their retries.
type OrderNumberGenerator struct {
	prefix string
	intn   func(int) int
}

// NewOrderNumberGenerator constructs generator with configured prefix.
func NewOrderNumberGenerator(cfg *config.Config) *OrderNumberGenerator {
	return &OrderNumberGenerator{prefix: cfg.OrderNumberPrefix, intn: rand.Intn}
}

// Generate returns a fresh random candidate for the UTC date of now.
func (g *OrderNumberGenerator) Generate(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", g.prefix, now.UTC().Format("20060102"), g.intn(10000))
}

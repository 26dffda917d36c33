package country

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultPickSize is the number of countries selected per session.
const DefaultPickSize = 10

// Partitioner splits a catalog into difficulty pools and samples a session
// pick without replacement.
type Partitioner struct {
	mu   sync.Mutex
	rng  *rand.Rand
	size int
}

// PartitionerOptions configures pick size and sampling determinism.
type PartitionerOptions struct {
	PickSize int
	Seed     int64 // 0 means time-seeded
}

// NewPartitioner constructs a partitioner with the provided options.
func NewPartitioner(opts PartitionerOptions) *Partitioner {
	size := opts.PickSize
	if size <= 0 {
		size = DefaultPickSize
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Partitioner{
		rng:  rand.New(rand.NewSource(seed)),
		size: size,
	}
}

// Select returns min(size, valid) unique countries for the requested tier,
// in draw order. Countries with zero or unknown population never appear.
//
// The requested tier's pool is drained first; the shortfall comes from the
// remaining pools in a fixed fallback order (medium sits between the
// extremes): easy -> medium -> hard, hard -> medium -> easy, and for medium
// (the default) medium -> easy -> hard. A final fill pass covers catalogs
// too small to satisfy the pick from the three pools alone.
func (p *Partitioner) Select(catalog []Country, tier Tier) []Country {
	valid := make([]Country, 0, len(catalog))
	for _, c := range catalog {
		if c.Valid() {
			valid = append(valid, c)
		}
	}

	pools := map[Tier][]Country{}
	for _, c := range valid {
		t := Classify(c.Population)
		pools[t] = append(pools[t], c)
	}

	var priority []Tier
	switch tier {
	case TierEasy:
		priority = []Tier{TierEasy, TierMedium, TierHard}
	case TierHard:
		priority = []Tier{TierHard, TierMedium, TierEasy}
	default:
		priority = []Tier{TierMedium, TierEasy, TierHard}
	}

	picked := make([]Country, 0, p.size)
	seen := make(map[string]struct{}, p.size)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range priority {
		if len(picked) >= p.size {
			break
		}
		picked = p.drawInto(picked, seen, pools[t])
	}

	// Tiny catalogs: top up from whatever valid countries remain.
	if len(picked) < p.size {
		picked = p.drawInto(picked, seen, valid)
	}

	if len(picked) > p.size {
		picked = picked[:p.size]
	}
	return picked
}

// drawInto samples uniformly without replacement from pool until the pick is
// full or the pool is exhausted. Caller holds p.mu.
func (p *Partitioner) drawInto(picked []Country, seen map[string]struct{}, pool []Country) []Country {
	remaining := make([]Country, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.Code]; !ok {
			remaining = append(remaining, c)
		}
	}
	p.shuffle(remaining)

	take := p.size - len(picked)
	if take > len(remaining) {
		take = len(remaining)
	}
	for _, c := range remaining[:take] {
		picked = append(picked, c)
		seen[c.Code] = struct{}{}
	}
	return picked
}

// shuffle is an unbiased Fisher-Yates shuffle.
func (p *Partitioner) shuffle(a []Country) {
	for i := len(a) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

package playlist

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// MaxItemsLimit caps Params.MaxItems.
const MaxItemsLimit = 100

const (
	priorityBandLow  = 0.05
	priorityBandHigh = 0.15
)

// Params controls a single composition.
type Params struct {
	TargetMinutes    int
	ToleranceMinutes int
	MaxItems         int
	Languages        []string // empty accepts every language
	MediaTypes       []string // empty accepts every media type
	Follow           domain.FollowSet
}

// Validate checks the numeric bounds.
func (p Params) Validate() error {
	switch {
	case p.TargetMinutes <= 0:
		return fmt.Errorf("%w: target_duration_min must be positive", ErrInvalidArgument)
	case p.MaxItems < 1 || p.MaxItems > MaxItemsLimit:
		return fmt.Errorf("%w: max_items must be between 1 and %d", ErrInvalidArgument, MaxItemsLimit)
	case p.ToleranceMinutes < 0:
		return fmt.Errorf("%w: tolerance_min must not be negative", ErrInvalidArgument)
	}
	return nil
}

// Candidates filters pool down to contents eligible under p and drops
// repeated IDs, keeping the first occurrence.
func Candidates(pool []domain.Content, p Params) []domain.Content {
	seen := make(map[int64]struct{}, len(pool))
	out := make([]domain.Content, 0, len(pool))
	for _, c := range pool {
		if c.Duration() <= 0 {
			continue
		}
		if len(p.MediaTypes) > 0 && !slices.Contains(p.MediaTypes, c.MediaType) {
			continue
		}
		if len(p.Languages) > 0 && c.Lang != nil && !slices.Contains(p.Languages, *c.Lang) {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Compose builds a playlist approximating p.TargetMinutes from pool.
//
// Contents whose duration falls within 5%-15% of the target form a priority
// band. Both the band and the rest are shuffled with rng, band first. A
// content is taken when it fits in the remaining minutes plus tolerance; the
// rest is only visited while more than the tolerance remains. A nil rng is
// replaced by a freshly seeded generator.
func Compose(pool []domain.Content, p Params, assoc Associations, rng *rand.Rand) (*domain.Playlist, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	candidates := Candidates(pool, p)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if rng == nil {
		rng = NewRand()
	}

	lo := float64(p.TargetMinutes) * priorityBandLow
	hi := float64(p.TargetMinutes) * priorityBandHigh

	var priority, others []domain.Content
	for _, c := range candidates {
		d := float64(c.Duration())
		if d >= lo && d <= hi {
			priority = append(priority, c)
		} else {
			others = append(others, c)
		}
	}
	shuffle(rng, priority)
	shuffle(rng, others)

	b := &builder{params: p, assoc: assoc, remaining: p.TargetMinutes, entries: []domain.PlaylistEntry{}}
	b.fill(priority)
	if b.remaining > p.ToleranceMinutes && len(b.entries) < p.MaxItems {
		b.fill(others)
	}

	return &domain.Playlist{
		Entries: b.entries,
		Summary: domain.PlaylistSummary{
			TotalDurationMin:  b.total,
			TargetDurationMin: p.TargetMinutes,
			OverageMin:        max(0, b.total-p.TargetMinutes),
			EfficiencyScore:   Score(b.total, p.TargetMinutes, p.ToleranceMinutes),
		},
	}, nil
}

// NewRand returns a generator seeded from crypto/rand, for one request.
func NewRand() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:]) // never fails since Go 1.24
	return rand.New(rand.NewChaCha8(seed))
}

// NewSeededRand returns a deterministic generator.
func NewSeededRand(seed uint64) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return rand.New(rand.NewChaCha8(s))
}

func shuffle(rng *rand.Rand, items []domain.Content) {
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

type builder struct {
	params    Params
	assoc     Associations
	entries   []domain.PlaylistEntry
	total     int
	remaining int
}

func (b *builder) fill(items []domain.Content) {
	for _, c := range items {
		if len(b.entries) >= b.params.MaxItems {
			return
		}
		if c.Duration() <= b.remaining+b.params.ToleranceMinutes {
			b.add(c)
		}
	}
}

func (b *builder) add(c domain.Content) {
	d := c.Duration()
	b.total += d
	b.remaining = b.params.TargetMinutes - b.total

	b.entries = append(b.entries, domain.PlaylistEntry{
		ContentID:        c.ID,
		Title:            c.Title,
		DurationMin:      d,
		Lang:             c.Lang,
		MediaType:        c.MediaType,
		ThumbnailURL:     c.ThumbnailURL,
		TotalDurationMin: b.total,
		RemainingMin:     max(0, b.remaining),
		RelatedArtists:   RelatedArtistNames(b.assoc, c.ID, b.params.Follow),
		Relevance:        Relevance(b.params.Follow, associatedArtists(b.assoc, c.ID)),
	})
}

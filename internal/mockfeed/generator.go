package mockfeed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/feedback/internal/domain/model"
	"github.com/okian/feedback/pkg/logger"
)

// Record is one generated response in its wire form. Keys are omitted
// rather than emptied so consumers see genuinely absent fields.
type Record map[string]any

var (
	firstNames  = []string{"Ada", "Grace", "Alan", "Katherine", "Linus", "Margaret", "Dennis", "Barbara", "Ken", "Frances", "Edsger", "Radia"}
	lastNames   = []string{"Lovelace", "Hopper", "Turing", "Johnson", "Torvalds", "Hamilton", "Ritchie", "Liskov", "Thompson", "Allen", "Dijkstra", "Perlman"}
	departments = []string{"Engineering", "Product", "Design", "Sales", "Marketing", "People", "Finance", "Support"}
	phrases     = []string{
		"the release went out on time",
		"pairing sessions helped a lot",
		"too many meetings this quarter",
		"on-call load was uneven",
		"documentation is still lagging",
		"cross-team planning improved",
		"we should automate the deploy checklist",
		"thanks to the platform team for the quick fixes",
		"priorities shifted mid-sprint",
		"more time for focused work",
	}
)

// Generate creates cfg.Count responses with creation dates spread over the
// cfg.Months months before cfg.Now.
func Generate(ctx context.Context, cfg *Config) ([]Record, error) {
	count := cfg.Count
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative: %d", count)
	}
	months := cfg.Months
	if months <= 0 {
		months = DefaultMonths
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	logger.Get().Debug(ctx, "generating responses",
		logger.Int("count", count),
		logger.Int("months", months),
		logger.Any("seed", seed),
	)

	earliest := now.AddDate(0, -months, 0)
	span := now.Sub(earliest)

	records := make([]Record, count)
	for i := range records {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled during generation: %w", err)
			}
		}
		created := earliest.Add(time.Duration(rng.Int64N(int64(span))))
		records[i] = generateRecord(rng, i, created)
	}
	return records, nil
}

// rngReader exposes a seeded generator as an io.Reader for uuid.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := i; j < len(p) && j < i+8; j++ {
			p[j] = byte(v)
			v >>= 8
		}
	}
	return len(p), nil
}

// newID draws a version 4 UUID from rng so a fixed seed yields fixed ids.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rngReader{rng: rng})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func chance(rng *rand.Rand, percent int) bool {
	return rng.IntN(100) < percent
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func generateRecord(rng *rand.Rand, index int, created time.Time) Record {
	rec := Record{}

	switch {
	case chance(rng, numericIDPercent):
		rec["_id"] = index + 1
	case chance(rng, legacyIDPercent):
		rec["_id"] = newID(rng)
	default:
		rec["id"] = newID(rng)
	}

	if !chance(rng, missingNamePercent) {
		rec["fullName"] = pick(rng, firstNames) + " " + pick(rng, lastNames)
	}
	rec["department"] = pick(rng, departments)

	switch {
	case chance(rng, invalidDatePercent):
		rec["createdAt"] = "not a date"
	case chance(rng, epochDatePercent):
		rec["createdAt"] = created.UnixMilli()
	default:
		rec["createdAt"] = created.UTC().Format(time.RFC3339)
	}

	for _, key := range model.FreeTextFields {
		if chance(rng, absentTextPercent) {
			continue
		}
		rec[key] = sentence(rng)
	}

	ratings := Record{}
	for _, key := range model.RatingFields {
		if chance(rng, absentRatingPercent) {
			continue
		}
		ratings[key] = 1 + rng.IntN(maxRating)
	}
	if chance(rng, nestedRatingPercent) {
		rec["ratings"] = ratings
	} else {
		for k, v := range ratings {
			rec[k] = v
		}
	}
	return rec
}

func sentence(rng *rand.Rand) string {
	n := 1 + rng.IntN(3)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(rng, phrases)
	}
	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

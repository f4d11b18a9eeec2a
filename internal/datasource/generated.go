package datasource

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

// currencies are ISO 4217 codes used by the generator.
var currencies = []string{"CAD", "USD", "EUR", "GBP", "JPY", "CHF", "CNY", "AUD"}

// Seed fills a store with a demo user plus randomly generated claims and
// expense items, and returns the generated user. Useful for demos and load
// tests where an empty database is no fun.
func Seed(ctx context.Context, store storage.Store, claims, itemsPerClaim int) (*models.User, error) {
	user := models.NewUser(uuid.New())
	user.SetName("Demo User")
	if err := store.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("seeding user: %w", err)
	}

	now := time.Now()
	for i := 0; i < claims; i++ {
		claim := models.NewClaim(uuid.New(), user.UUID())
		claim.SetName(randomString(8, 16))
		claim.SetStartDate(now)
		claim.SetEndDate(now)
		claim.SetStatus(randomStatus())
		claim.SetDestinations([]models.Destination{{
			Location: randomString(6, 14),
			Reason:   randomString(10, 30),
		}})
		if err := store.Put(ctx, claim); err != nil {
			return nil, fmt.Errorf("seeding claim %d: %w", i, err)
		}

		for j := 0; j < itemsPerClaim; j++ {
			item := models.NewItem(uuid.New(), claim.UUID())
			item.SetAmount(rand.Float64() * float64(10+rand.IntN(6)) * float64(rand.IntN(4)))
			item.SetCurrency(currencies[rand.IntN(len(currencies))])
			item.SetDate(now)
			item.SetDescription(randomString(20, 76))
			if err := store.Put(ctx, item); err != nil {
				return nil, fmt.Errorf("seeding item %d of claim %d: %w", j, i, err)
			}
		}
	}
	return user, nil
}

func randomStatus() models.Status {
	all := []models.Status{
		models.StatusInProgress,
		models.StatusSubmitted,
		models.StatusApproved,
		models.StatusReturned,
	}
	return all[rand.IntN(len(all))]
}

// randomString returns a string of length [minLen, maxLen) drawn from
// letters, digits and spaces. Spaces appear twice in the alphabet so that
// generated names look word-ish.
func randomString(minLen, maxLen int) string {
	const chars = "  ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz1234567890"
	n := minLen + rand.IntN(maxLen-minLen)
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))]
	}
	return string(b)
}

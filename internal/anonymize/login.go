package anonymize

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
)

const maxLoginAttempts = 30

type loginChecker interface {
	LoginExists(ctx context.Context, login string) (bool, error)
}

// uniqueLogin finds a login that no existing user holds. The proposed
// candidate is tried first; after five attempts, or when no candidate
// was supplied, a fresh random username is generated instead. A clash
// on any attempt past the first is retried once with a random 5-digit
// suffix before counting as a failure.
func uniqueLogin(ctx context.Context, store loginChecker, proposed string, gen fake.Generator) (string, error) {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		candidate := proposed
		if attempt > 5 || candidate == "" {
			candidate = strings.ToLower(gen.Username())
		}

		exists, err := store.LoginExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		if attempt > 1 {
			suffixed := fmt.Sprintf("%s%05d", candidate, gen.Number(0, 99999))
			exists, err := store.LoginExists(ctx, suffixed)
			if err != nil {
				return "", err
			}
			if !exists {
				return suffixed, nil
			}
		}
	}
	return "", ErrLoginRetriesExhausted
}

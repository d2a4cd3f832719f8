package anonymize

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
	log "github.com/sirupsen/logrus"
)

// resolveKeepList maps each --keep token to a user id. Numeric tokens
// resolve by id, tokens containing "@" by email column, everything else
// by login column. Every token is verified against the users table, so
// a stale id warns or aborts the same way a stale login does. Lookups
// hit the users table directly because they must work across sites.
func resolveKeepList(ctx context.Context, store Store, tokens []string, skipNotFound bool) ([]int64, []string, error) {
	var ids []int64
	var warnings []string

	for _, token := range tokens {
		column := "user_login"
		if _, err := strconv.ParseInt(token, 10, 64); err == nil {
			column = "ID"
		} else if strings.Contains(token, "@") {
			column = "user_email"
		}

		user, err := store.FindUserBy(ctx, column, token)
		if errors.Is(err, wp.ErrUserNotFound) {
			if skipNotFound {
				msg := fmt.Sprintf("skipping --keep token %q: no matching user", token)
				log.Warn(msg)
				warnings = append(warnings, msg)
				continue
			}
			return nil, nil, &ResolutionError{Token: token}
		}
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, user.ID)
	}

	return ids, warnings, nil
}

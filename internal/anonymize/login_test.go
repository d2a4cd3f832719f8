package anonymize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginSet struct {
	taken  func(login string) bool
	checks int
}

func (l *loginSet) LoginExists(ctx context.Context, login string) (bool, error) {
	l.checks++
	return l.taken(login), nil
}

func TestUniqueLoginAcceptsFreeCandidate(t *testing.T) {
	store := &loginSet{taken: func(string) bool { return false }}
	gen := fake.New("en_US", 1)

	login, err := uniqueLogin(context.Background(), store, "smith.jane", gen)
	require.NoError(t, err)
	assert.Equal(t, "smith.jane", login)
	assert.Equal(t, 1, store.checks)
}

func TestUniqueLoginSuffixesOnCollision(t *testing.T) {
	store := &loginSet{taken: func(login string) bool { return login == "smith.jane" }}
	gen := fake.New("en_US", 1)

	login, err := uniqueLogin(context.Background(), store, "smith.jane", gen)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(login, "smith.jane"), "got %q", login)
	assert.Len(t, login, len("smith.jane")+5, "expected a 5-digit suffix, got %q", login)
}

func TestUniqueLoginFallsBackToRandomUsername(t *testing.T) {
	// Proposed login and every suffixed variant stay taken, forcing the
	// loop past its fifth attempt into random usernames.
	store := &loginSet{taken: func(login string) bool {
		return strings.HasPrefix(login, "smith.jane")
	}}
	gen := fake.New("en_US", 1)

	login, err := uniqueLogin(context.Background(), store, "smith.jane", gen)
	require.NoError(t, err)
	assert.NotEmpty(t, login)
	assert.False(t, strings.HasPrefix(login, "smith.jane"), "got %q", login)
}

func TestUniqueLoginEmptyCandidateUsesRandom(t *testing.T) {
	store := &loginSet{taken: func(string) bool { return false }}
	gen := fake.New("en_US", 1)

	login, err := uniqueLogin(context.Background(), store, "", gen)
	require.NoError(t, err)
	assert.NotEmpty(t, login)
	assert.Equal(t, strings.ToLower(login), login)
}

func TestUniqueLoginExhaustsAfterBoundedAttempts(t *testing.T) {
	store := &loginSet{taken: func(string) bool { return true }}
	gen := fake.New("en_US", 1)

	_, err := uniqueLogin(context.Background(), store, "smith.jane", gen)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRetriesExhausted))
	assert.LessOrEqual(t, store.checks, maxLoginAttempts*2)
}

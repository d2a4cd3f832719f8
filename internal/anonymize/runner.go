package anonymize

import (
	"context"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
	log "github.com/sirupsen/logrus"
)

// Store is the slice of the wp store the runner needs. *wp.Store
// implements it; tests substitute an in-memory fake.
type Store interface {
	Multisite() bool
	ListSiteIDs(ctx context.Context) ([]int64, error)
	WithSite(siteID int64, fn func() error) error

	ListUsers(ctx context.Context, excluded []int64) ([]*wp.User, error)
	ListSiteUsers(ctx context.Context, siteID int64, excluded []int64) ([]*wp.User, error)
	FindUserBy(ctx context.Context, column, value string) (*wp.User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	UpdateUser(ctx context.Context, id int64, columns, meta map[string]string) error
	UpdateUserLogin(ctx context.Context, id int64, login string) error

	ListComments(ctx context.Context) ([]*wp.Comment, error)
	UpdateComment(ctx context.Context, id int64, columns map[string]string) error
}

// GeneratorFactory builds a seeded generator. Seed 0 means
// non-reproducible randomness.
type GeneratorFactory func(locale string, seed int64) fake.Generator

// Summary is the per-entity record count reported after a run.
type Summary struct {
	Users    int
	Comments int
}

// Runner executes one anonymization run: users first, then comments,
// strictly sequential.
type Runner struct {
	store          Store
	run            *RunConfig
	contactMethods []string
	hooks          Hooks
	newGenerator   GeneratorFactory

	// Progress enables the terminal progress bar; off in tests.
	Progress bool

	processedUsers int
}

func NewRunner(store Store, run *RunConfig, contactMethods []string, hooks Hooks) *Runner {
	return &Runner{
		store:          store,
		run:            run,
		contactMethods: contactMethods,
		hooks:          hooks,
		newGenerator: func(locale string, seed int64) fake.Generator {
			return fake.New(locale, seed)
		},
	}
}

// SetGeneratorFactory overrides how per-user generators are built.
func (r *Runner) SetGeneratorFactory(f GeneratorFactory) {
	r.newGenerator = f
}

// Run obfuscates users then comments and reports both counts.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	log.WithFields(log.Fields{
		"excluded":  r.run.ExcludedUserIDs,
		"multisite": r.store.Multisite(),
		"seeded":    r.run.Seed != nil,
	}).Info("starting anonymization run")

	users, err := r.ObfuscateUsers(ctx)
	if err != nil {
		return nil, err
	}

	comments, err := r.ObfuscateComments(ctx)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"users": users, "comments": comments}).Info("anonymization run finished")
	return &Summary{Users: users, Comments: comments}, nil
}

// nextGenerator hands out the generator for the next processed user.
// The configured seed advances by one per user so values decorrelate
// across users while staying reproducible.
func (r *Runner) nextGenerator() fake.Generator {
	seed := int64(0)
	if r.run.Seed != nil {
		seed = *r.run.Seed + int64(r.processedUsers)
	}
	r.processedUsers++
	return r.newGenerator(r.run.Locale, seed)
}

// commentGenerator builds the single generator used for all comments.
// Comments never advance the seed.
func (r *Runner) commentGenerator() fake.Generator {
	seed := int64(0)
	if r.run.Seed != nil {
		seed = *r.run.Seed + int64(r.processedUsers)
	}
	return r.newGenerator(r.run.Locale, seed)
}

// targetUsers enumerates the users to mutate for the configured scope.
// Under the all-sites scope a user is listed once per site membership;
// duplicates are collapsed by id, keeping first-seen order.
func (r *Runner) targetUsers(ctx context.Context) ([]*wp.User, error) {
	if !r.store.Multisite() {
		return r.store.ListUsers(ctx, r.run.ExcludedUserIDs)
	}

	if r.run.SiteFilter != nil {
		return r.store.ListSiteUsers(ctx, *r.run.SiteFilter, r.run.ExcludedUserIDs)
	}

	siteIDs, err := r.store.ListSiteIDs(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var users []*wp.User
	for _, siteID := range siteIDs {
		siteUsers, err := r.store.ListSiteUsers(ctx, siteID, r.run.ExcludedUserIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range siteUsers {
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			users = append(users, u)
		}
	}
	return users, nil
}

package anonymize

import (
	"context"
	"errors"
	"testing"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfig(t *testing.T, store *fakeStore, flags Flags) (*RunConfig, error) {
	t.Helper()
	return BuildRunConfig(context.Background(), flags, store, fake.New("en_US", 0))
}

func TestBuildRunConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{})
	require.NoError(t, err)

	assert.Equal(t, DefaultLocale, cfg.Locale)
	assert.Nil(t, cfg.Seed)
	assert.Nil(t, cfg.SiteFilter)
	assert.Empty(t, cfg.ExcludedUserIDs)
	assert.Empty(t, cfg.CustomEmailDomains)
	assert.Empty(t, cfg.CustomFields)
}

func TestBuildRunConfigSeed(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{Seed: 42, SeedSet: true})
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
}

func TestSiteOnSingleSiteDeploymentFails(t *testing.T) {
	_, err := buildConfig(t, newFakeStore(), Flags{Site: "1", SiteSet: true})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSiteMustBeNumeric(t *testing.T) {
	store := newFakeStore()
	store.multisite = true

	_, err := buildConfig(t, store, Flags{Site: "main", SiteSet: true})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSiteParsed(t *testing.T) {
	store := newFakeStore()
	store.multisite = true

	cfg, err := buildConfig(t, store, Flags{Site: "3", SiteSet: true})
	require.NoError(t, err)
	require.NotNil(t, cfg.SiteFilter)
	assert.Equal(t, int64(3), *cfg.SiteFilter)
}

func TestKeepNumericTokensResolved(t *testing.T) {
	store := newFakeStore()
	store.addUser(testUser(7, "jdoe", "jdoe@corp.example"))
	store.addUser(testUser(12, "asmith", "asmith@corp.example"))

	cfg, err := buildConfig(t, store, Flags{Keep: "12, 7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 7}, cfg.ExcludedUserIDs)
}

func TestKeepMissingIDFails(t *testing.T) {
	store := newFakeStore()
	store.addUser(testUser(1, "jdoe", "jdoe@corp.example"))

	_, err := buildConfig(t, store, Flags{Keep: "999"})
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "999", resErr.Token)
}

func TestKeepMissingIDSkipped(t *testing.T) {
	store := newFakeStore()
	store.addUser(testUser(1, "jdoe", "jdoe@corp.example"))

	cfg, err := buildConfig(t, store, Flags{Keep: "999", SkipNotFound: true})
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedUserIDs)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "999")
}

func TestKeepEmailAndLoginTokens(t *testing.T) {
	store := newFakeStore()
	store.addUser(testUser(3, "jdoe", "jdoe@corp.example"))
	store.addUser(testUser(8, "asmith", "asmith@corp.example"))

	cfg, err := buildConfig(t, store, Flags{Keep: "jdoe@corp.example,asmith"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 8}, cfg.ExcludedUserIDs)
}

func TestKeepUnresolvedTokenFails(t *testing.T) {
	_, err := buildConfig(t, newFakeStore(), Flags{Keep: "ghost"})
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "ghost", resErr.Token)
}

func TestKeepUnresolvedTokenSkipped(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{Keep: "ghost", SkipNotFound: true})
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedUserIDs)
	assert.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "ghost")
}

func TestCustomFieldsParsing(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{CustomFields: "twitter::username, bio"})
	require.NoError(t, err)
	require.Len(t, cfg.CustomFields, 2)
	assert.Equal(t, CustomField{Name: "twitter", Method: "username"}, cfg.CustomFields[0])
	assert.Equal(t, CustomField{Name: "bio"}, cfg.CustomFields[1])
}

func TestCustomFieldsMethodParenthesesStripped(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{CustomFields: "slack::word()"})
	require.NoError(t, err)
	require.Len(t, cfg.CustomFields, 1)
	assert.Equal(t, "word", cfg.CustomFields[0].Method)
}

func TestCustomFieldsUnknownMethodFailsEagerly(t *testing.T) {
	_, err := buildConfig(t, newFakeStore(), Flags{CustomFields: "slack::launchMissiles"})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestCustomEmailDomainsParsing(t *testing.T) {
	cfg, err := buildConfig(t, newFakeStore(), Flags{CustomEmailDomains: " a.com , b.com ,"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com", "b.com"}, cfg.CustomEmailDomains)
}

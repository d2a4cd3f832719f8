package anonymize

import (
	"context"
	"strconv"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
)

const DefaultLocale = "en_US"

// Flags holds the raw option values exactly as the CLI layer collected
// them, before validation.
type Flags struct {
	Keep               string
	SkipNotFound       bool
	Site               string
	SiteSet            bool
	IgnoreEmptyFields  bool
	Language           string
	Seed               int64
	SeedSet            bool
	CustomEmailDomains string
	CustomFields       string
}

// CustomField is one operator-declared metadata field to fake. An empty
// Method means the default paragraph generator.
type CustomField struct {
	Name   string
	Method string
}

// RunConfig is the validated, immutable configuration of one run.
type RunConfig struct {
	ExcludedUserIDs    []int64
	SkipNotFound       bool
	SiteFilter         *int64
	IgnoreEmptyFields  bool
	Locale             string
	Seed               *int64
	CustomEmailDomains []string
	CustomFields       []CustomField
	Warnings           []string
}

// BuildRunConfig validates the raw flags against the deployment and
// resolves the keep list, failing fast on the first bad value.
func BuildRunConfig(ctx context.Context, flags Flags, store Store, gen fake.Generator) (*RunConfig, error) {
	cfg := &RunConfig{
		SkipNotFound:      flags.SkipNotFound,
		IgnoreEmptyFields: flags.IgnoreEmptyFields,
		Locale:            flags.Language,
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}

	if flags.SiteSet {
		if !store.Multisite() {
			return nil, configErrorf("--site requires a multisite deployment")
		}
		siteID, err := strconv.ParseInt(strings.TrimSpace(flags.Site), 10, 64)
		if err != nil {
			return nil, configErrorf("--site must be an integer, got %q", flags.Site)
		}
		cfg.SiteFilter = &siteID
	}

	if flags.SeedSet {
		seed := flags.Seed
		cfg.Seed = &seed
	}

	cfg.CustomEmailDomains = splitCSV(flags.CustomEmailDomains)

	fields, err := parseCustomFields(flags.CustomFields, gen)
	if err != nil {
		return nil, err
	}
	cfg.CustomFields = fields

	ids, warnings, err := resolveKeepList(ctx, store, splitCSV(flags.Keep), flags.SkipNotFound)
	if err != nil {
		return nil, err
	}
	cfg.ExcludedUserIDs = ids
	cfg.Warnings = warnings

	return cfg, nil
}

// parseCustomFields splits "name" / "name::method" tokens and validates
// every named method against the generator registry before the run
// starts.
func parseCustomFields(raw string, gen fake.Generator) ([]CustomField, error) {
	var fields []CustomField
	for _, token := range splitCSV(raw) {
		name, method, found := strings.Cut(token, "::")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, configErrorf("empty field name in --custom-fields token %q", token)
		}

		cf := CustomField{Name: name}
		if found {
			// Configured method names sometimes carry parentheses
			method = strings.TrimSuffix(strings.TrimSpace(method), "()")
			if method == "" {
				return nil, configErrorf("empty generator method in --custom-fields token %q", token)
			}
			if !gen.HasMethod(method) {
				return nil, configErrorf("unknown generator method %q in --custom-fields", method)
			}
			cf.Method = method
		}
		fields = append(fields, cf)
	}
	return fields, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

package anonymize

import (
	"context"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

const dateTimeFormat = "2006-01-02 15:04:05"

var userTableColumns = map[string]bool{
	"user_login":      true,
	"user_pass":       true,
	"user_nicename":   true,
	"user_email":      true,
	"user_url":        true,
	"user_registered": true,
	"display_name":    true,
}

// ObfuscateUsers rewrites the profile of every in-scope user and
// returns the processed count.
func (r *Runner) ObfuscateUsers(ctx context.Context) (int, error) {
	users, err := r.targetUsers(ctx)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		color.Yellow("⚠️  No users left to anonymize after exclusions")
		return 0, nil
	}

	count := 0
	for _, u := range users {
		gen := r.nextGenerator()

		fields, err := r.userReplacement(ctx, u, gen)
		if err != nil {
			return count, err
		}

		if r.run.IgnoreEmptyFields {
			dropFilledFields(u, fields)
		}

		r.hooks.runUser(r.hooks.PreUserUpdate, u, fields, gen)

		columns := make(map[string]string)
		meta := make(map[string]string)
		for name, value := range fields {
			if userTableColumns[name] {
				columns[name] = value
			} else {
				meta[name] = value
			}
		}

		if err := r.store.UpdateUser(ctx, u.ID, columns, meta); err != nil {
			return count, err
		}
		// The normal update path never touches logins; force it.
		if login, ok := columns["user_login"]; ok {
			if err := r.store.UpdateUserLogin(ctx, u.ID, login); err != nil {
				return count, err
			}
		}

		r.hooks.runUser(r.hooks.PostUserUpdate, u, fields, gen)

		log.WithFields(log.Fields{"user_id": u.ID, "old_login": u.Login}).Debug("anonymized user")
		count++
	}

	return count, nil
}

// userReplacement computes the full replacement profile for one user.
func (r *Runner) userReplacement(ctx context.Context, u *wp.User, gen fake.Generator) (map[string]string, error) {
	first := gen.FirstName()
	last := gen.LastName()

	proposed := strings.ReplaceAll(slugify(last+" "+first), "-", ".")
	login, err := uniqueLogin(ctx, r.store, proposed, gen)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"user_login":      login,
		"user_pass":       gen.Password(),
		"user_nicename":   slugify(login),
		"user_email":      r.emailFor(login, gen),
		"user_url":        gen.URL(),
		"user_registered": gen.DateThisDecade().Format(dateTimeFormat),
		"display_name":    first + " " + last,
		"first_name":      first,
		"last_name":       last,
		"nickname":        login,
		"description":     gen.Paragraph(3, 100, 200),
	}

	for _, method := range r.contactMethods {
		fields[method] = login + "." + sanitizeLabel(method)
	}

	for _, cf := range r.run.CustomFields {
		value, err := r.customFieldValue(cf, gen)
		if err != nil {
			return nil, err
		}
		fields[cf.Name] = value
	}

	return fields, nil
}

func (r *Runner) customFieldValue(cf CustomField, gen fake.Generator) (string, error) {
	if cf.Method == "" {
		return gen.Paragraph(3, 10, 20), nil
	}
	return gen.ByName(cf.Method)
}

// emailFor builds the replacement address for a login. With configured
// custom domains one is picked uniformly per email by shuffling the
// list; a domain with no dot past its first character gets a generated
// TLD appended.
func (r *Runner) emailFor(login string, gen fake.Generator) string {
	if len(r.run.CustomEmailDomains) == 0 {
		return gen.SafeEmail()
	}

	domains := make([]string, len(r.run.CustomEmailDomains))
	copy(domains, r.run.CustomEmailDomains)
	for i := len(domains) - 1; i > 0; i-- {
		j := gen.Number(0, i)
		domains[i], domains[j] = domains[j], domains[i]
	}

	domain := domains[0]
	if len(domain) < 2 || !strings.Contains(domain[1:], ".") {
		domain += "." + gen.DomainSuffix()
	}
	return login + "@" + domain
}

// dropFilledFields removes every computed field whose current value on
// the record is already non-empty. Empty fields stay and get populated.
func dropFilledFields(u *wp.User, fields map[string]string) {
	for name := range fields {
		if currentFieldValue(u, name) != "" {
			delete(fields, name)
		}
	}
}

func currentFieldValue(u *wp.User, name string) string {
	switch name {
	case "user_login":
		return u.Login
	case "user_pass":
		return u.Pass
	case "user_nicename":
		return u.Nicename
	case "user_email":
		return u.Email
	case "user_url":
		return u.URL
	case "user_registered":
		return u.Registered
	case "display_name":
		return u.DisplayName
	default:
		return u.Meta[name]
	}
}

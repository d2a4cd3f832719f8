package fake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod reports a generator method name that is not
// registered. Custom-field configurations are validated against the
// registry before any record is touched.
var ErrUnknownMethod = errors.New("unknown generator method")

// registry maps invocable method names to string-producing generators.
// Names are matched case-insensitively.
func registry(fk *Faker) map[string]func() string {
	return map[string]func() string{
		"firstname":    fk.FirstName,
		"lastname":     fk.LastName,
		"name":         func() string { return fk.FirstName() + " " + fk.LastName() },
		"username":     fk.Username,
		"email":        fk.SafeEmail,
		"safeemail":    fk.SafeEmail,
		"url":          fk.URL,
		"ipv4":         fk.IPv4,
		"useragent":    fk.UserAgent,
		"password":     fk.Password,
		"word":         fk.Word,
		"sentence":     func() string { return fk.Paragraph(1, 10, 20) },
		"text":         func() string { return fk.Paragraph(3, 10, 20) },
		"paragraph":    func() string { return fk.Paragraph(3, 10, 20) },
		"phone":        fk.f.Phone,
		"company":      fk.f.Company,
		"city":         fk.f.City,
		"country":      fk.f.Country,
		"date":         func() string { return fk.DateThisDecade().Format("2006-01-02 15:04:05") },
		"domainsuffix": fk.DomainSuffix,
	}
}

// ByName invokes a registered generator method. The lookup is lazy only
// in the sense that the value is produced here; whether a name exists
// can be checked up front with HasMethod.
func (fk *Faker) ByName(method string) (string, error) {
	gen, ok := fk.methods[normalizeMethod(method)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return gen(), nil
}

// HasMethod reports whether a generator method name is registered.
func (fk *Faker) HasMethod(method string) bool {
	_, ok := fk.methods[normalizeMethod(method)]
	return ok
}

func normalizeMethod(method string) string {
	method = strings.TrimSpace(method)
	// Configured names sometimes arrive as "method()"
	method = strings.TrimSuffix(method, "()")
	method = strings.ReplaceAll(method, "_", "")
	return strings.ToLower(method)
}

package fake

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator is the synthetic-data capability surface the anonymizer
// runs against. Implementations must be deterministic for a fixed seed.
type Generator interface {
	FirstName() string
	LastName() string
	Username() string
	SafeEmail() string
	DomainSuffix() string
	URL() string
	IPv4() string
	UserAgent() string
	Password() string
	Word() string
	Paragraph(sentences, minWords, maxWords int) string
	DateThisDecade() time.Time
	Number(min, max int) int
	ByName(method string) (string, error)
	HasMethod(method string) bool
	Locale() string
}

// Faker is the gofakeit-backed Generator. The locale is carried through
// uninterpreted; gofakeit's datasets are English regardless.
type Faker struct {
	f       *gofakeit.Faker
	locale  string
	methods map[string]func() string
}

// New builds a Faker for a locale. A non-zero seed makes every generated
// value reproducible; zero seeds from crypto randomness.
func New(locale string, seed int64) *Faker {
	fk := &Faker{
		f:      gofakeit.New(seed),
		locale: locale,
	}
	fk.methods = registry(fk)
	return fk
}

func (fk *Faker) Locale() string { return fk.locale }

func (fk *Faker) FirstName() string { return fk.f.FirstName() }

func (fk *Faker) LastName() string { return fk.f.LastName() }

func (fk *Faker) Username() string { return fk.f.Username() }

// SafeEmail generates an address under a reserved example domain so
// anonymized data can never reach a real mailbox.
func (fk *Faker) SafeEmail() string {
	return fk.f.Username() + "@example." + fk.f.RandomString([]string{"com", "org", "net"})
}

func (fk *Faker) DomainSuffix() string { return fk.f.DomainSuffix() }

func (fk *Faker) URL() string { return fk.f.URL() }

func (fk *Faker) IPv4() string { return fk.f.IPv4Address() }

func (fk *Faker) UserAgent() string { return fk.f.UserAgent() }

func (fk *Faker) Password() string {
	return fk.f.Password(true, true, true, true, false, 16)
}

func (fk *Faker) Word() string { return fk.f.Word() }

// Paragraph generates one paragraph of the given sentence count with a
// total word count drawn from [minWords, maxWords].
func (fk *Faker) Paragraph(sentences, minWords, maxWords int) string {
	words := fk.f.Number(minWords, maxWords)
	perSentence := words / sentences
	if perSentence < 1 {
		perSentence = 1
	}
	return fk.f.Paragraph(1, sentences, perSentence, " ")
}

// DateThisDecade picks a date between the start of the current decade
// and today. The range end is truncated to midnight so a fixed seed
// yields the same date for every run on a given day.
func (fk *Faker) DateThisDecade() time.Time {
	now := time.Now().UTC()
	start := time.Date(now.Year()-now.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return fk.f.DateRange(start, end)
}

func (fk *Faker) Number(min, max int) int { return fk.f.Number(min, max) }

package anonymize

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
)

// fakeStore is an in-memory Store used across the package tests.
type fakeStore struct {
	multisite  bool
	siteIDs    []int64
	users      []*wp.User
	membership map[int64][]int64
	comments   map[int64][]*wp.Comment
	logins     map[string]bool

	currentSite int64
	siteTrace   []int64

	updatedColumns  map[int64]map[string]string
	updatedMeta     map[int64]map[string]string
	updatedLogins   map[int64]string
	updatedComments map[int64]map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		currentSite:     1,
		membership:      make(map[int64][]int64),
		comments:        make(map[int64][]*wp.Comment),
		logins:          make(map[string]bool),
		updatedColumns:  make(map[int64]map[string]string),
		updatedMeta:     make(map[int64]map[string]string),
		updatedLogins:   make(map[int64]string),
		updatedComments: make(map[int64]map[string]string),
	}
}

func (f *fakeStore) addUser(u *wp.User) {
	f.users = append(f.users, u)
	if u.Login != "" {
		f.logins[u.Login] = true
	}
}

func (f *fakeStore) Multisite() bool { return f.multisite }

func (f *fakeStore) ListSiteIDs(ctx context.Context) ([]int64, error) {
	return f.siteIDs, nil
}

func (f *fakeStore) WithSite(siteID int64, fn func() error) error {
	prev := f.currentSite
	f.currentSite = siteID
	f.siteTrace = append(f.siteTrace, siteID)
	defer func() { f.currentSite = prev }()
	return fn()
}

func (f *fakeStore) ListUsers(ctx context.Context, excluded []int64) ([]*wp.User, error) {
	skip := idSet(excluded)
	var out []*wp.User
	for _, u := range f.users {
		if !skip[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSiteUsers(ctx context.Context, siteID int64, excluded []int64) ([]*wp.User, error) {
	skip := idSet(excluded)
	members := idSet(f.membership[siteID])
	var out []*wp.User
	for _, u := range f.users {
		if members[u.ID] && !skip[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) FindUserBy(ctx context.Context, column, value string) (*wp.User, error) {
	for _, u := range f.users {
		switch column {
		case "ID":
			if strconv.FormatInt(u.ID, 10) == value {
				return u, nil
			}
		case "user_email":
			if u.Email == value {
				return u, nil
			}
		case "user_login":
			if u.Login == value {
				return u, nil
			}
		default:
			return nil, fmt.Errorf("unexpected lookup column %q", column)
		}
	}
	return nil, wp.ErrUserNotFound
}

func (f *fakeStore) LoginExists(ctx context.Context, login string) (bool, error) {
	return f.logins[login], nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, id int64, columns, meta map[string]string) error {
	if f.updatedColumns[id] == nil {
		f.updatedColumns[id] = make(map[string]string)
	}
	for k, v := range columns {
		f.updatedColumns[id][k] = v
	}
	if f.updatedMeta[id] == nil {
		f.updatedMeta[id] = make(map[string]string)
	}
	for k, v := range meta {
		f.updatedMeta[id][k] = v
	}
	return nil
}

func (f *fakeStore) UpdateUserLogin(ctx context.Context, id int64, login string) error {
	f.updatedLogins[id] = login
	f.logins[login] = true
	return nil
}

func (f *fakeStore) ListComments(ctx context.Context) ([]*wp.Comment, error) {
	return f.comments[f.currentSite], nil
}

func (f *fakeStore) UpdateComment(ctx context.Context, id int64, columns map[string]string) error {
	if f.updatedComments[id] == nil {
		f.updatedComments[id] = make(map[string]string)
	}
	for k, v := range columns {
		f.updatedComments[id][k] = v
	}
	return nil
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func testUser(id int64, login, email string) *wp.User {
	return &wp.User{
		ID:          id,
		Login:       login,
		Pass:        "$P$hashhashhash",
		Nicename:    login,
		Email:       email,
		URL:         "https://old.example.com",
		Registered:  "2019-05-01 10:00:00",
		DisplayName: "Original Name",
		Meta: map[string]string{
			"first_name": "Original",
			"last_name":  "Name",
			"nickname":   login,
		},
	}
}

func testComment(id int64, status string) *wp.Comment {
	return &wp.Comment{
		ID:          id,
		AuthorName:  "Real Person",
		AuthorEmail: "real@person.example",
		AuthorURL:   "https://person.example",
		AuthorIP:    "203.0.113.7",
		Agent:       "Mozilla/5.0 (real)",
		Approved:    status,
	}
}

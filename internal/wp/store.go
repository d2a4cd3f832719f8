package wp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Store wraps direct access to a WordPress-schema database. Global tables
// (users, usermeta, blogs) always live under the base prefix; per-site
// tables (comments) live under the current site prefix.
type Store struct {
	db         *sql.DB
	qb         squirrel.StatementBuilderType
	basePrefix string
	prefix     string
	multisite  bool
}

func New(db *sql.DB, basePrefix string, multisite bool, provider string) *Store {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	switch provider {
	case "postgresql", "postgres":
		placeholder = squirrel.Dollar
	}
	return &Store{
		db:         db,
		qb:         squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		basePrefix: basePrefix,
		prefix:     basePrefix,
		multisite:  multisite,
	}
}

func (s *Store) Multisite() bool {
	return s.multisite
}

// SitePrefix returns the table prefix for a site. Site 1 shares the base
// prefix; every other site gets its own numbered prefix.
func (s *Store) SitePrefix(siteID int64) string {
	if siteID <= 1 {
		return s.basePrefix
	}
	return fmt.Sprintf("%s%d_", s.basePrefix, siteID)
}

func (s *Store) CurrentPrefix() string {
	return s.prefix
}

// WithSite runs fn with the store switched to a site's table prefix and
// restores the previous prefix on every exit path. Only one site context
// is current at a time; callers must not nest concurrent switches.
func (s *Store) WithSite(siteID int64, fn func() error) error {
	prev := s.prefix
	s.prefix = s.SitePrefix(siteID)
	defer func() {
		s.prefix = prev
	}()
	return fn()
}

func (s *Store) siteTable(name string) string {
	return s.prefix + name
}

func (s *Store) globalTable(name string) string {
	return s.basePrefix + name
}

// ListSiteIDs returns every site id registered in the blogs table,
// in blog_id order. Only meaningful on multisite deployments.
func (s *Store) ListSiteIDs(ctx context.Context) ([]int64, error) {
	query := s.qb.Select("blog_id").From(s.globalTable("blogs")).OrderBy("blog_id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query site list: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan site id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site rows: %w", err)
	}

	return ids, nil
}

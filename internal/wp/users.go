package wp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

var ErrUserNotFound = errors.New("user not found")

// User is one row of the users table plus its usermeta mapping.
type User struct {
	ID          int64
	Login       string
	Pass        string
	Nicename    string
	Email       string
	URL         string
	Registered  string
	DisplayName string
	Meta        map[string]string
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Login, &u.Pass, &u.Nicename, &u.Email, &u.URL, &u.Registered, &u.DisplayName)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user except the excluded ids, in ID order,
// with usermeta loaded.
func (s *Store) ListUsers(ctx context.Context, excluded []int64) ([]*User, error) {
	query := s.qb.
		Select("ID", "user_login", "user_pass", "user_nicename", "user_email", "user_url", "user_registered", "display_name").
		From(s.globalTable("users")).
		OrderBy("ID")
	if len(excluded) > 0 {
		query = query.Where(squirrel.NotEq{"ID": excluded})
	}
	return s.queryUsers(ctx, query)
}

// ListSiteUsers returns the users belonging to one site, minus the
// excluded ids. Membership is recorded as a per-site capabilities key
// in usermeta.
func (s *Store) ListSiteUsers(ctx context.Context, siteID int64, excluded []int64) ([]*User, error) {
	usersTable := s.globalTable("users")
	metaTable := s.globalTable("usermeta")
	capKey := s.SitePrefix(siteID) + "capabilities"

	query := s.qb.
		Select("u.ID", "u.user_login", "u.user_pass", "u.user_nicename", "u.user_email", "u.user_url", "u.user_registered", "u.display_name").
		From(usersTable + " u").
		Join(metaTable + " m ON m.user_id = u.ID").
		Where(squirrel.Eq{"m.meta_key": capKey}).
		OrderBy("u.ID")
	if len(excluded) > 0 {
		query = query.Where(squirrel.NotEq{"u.ID": excluded})
	}
	return s.queryUsers(ctx, query)
}

func (s *Store) queryUsers(ctx context.Context, query squirrel.SelectBuilder) ([]*User, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	for _, u := range users {
		if err := s.loadUserMeta(ctx, u); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// FindUserBy looks a user up by a single users-table column
// (user_email or user_login). Returns ErrUserNotFound on a miss.
func (s *Store) FindUserBy(ctx context.Context, column, value string) (*User, error) {
	query := s.qb.
		Select("ID", "user_login", "user_pass", "user_nicename", "user_email", "user_url", "user_registered", "display_name").
		From(s.globalTable("users")).
		Where(squirrel.Eq{column: value}).
		Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by %s: %w", column, err)
	}
	return u, nil
}

// LoginExists reports whether any user currently holds the given login.
func (s *Store) LoginExists(ctx context.Context, login string) (bool, error) {
	query := s.qb.Select("ID").From(s.globalTable("users")).
		Where(squirrel.Eq{"user_login": login}).Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check login %q: %w", login, err)
	}
	return true, nil
}

func (s *Store) loadUserMeta(ctx context.Context, u *User) error {
	query := s.qb.Select("meta_key", "meta_value").
		From(s.globalTable("usermeta")).
		Where(squirrel.Eq{"user_id": u.ID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to query usermeta for user %d: %w", u.ID, err)
	}
	defer rows.Close()

	u.Meta = make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan usermeta row: %w", err)
		}
		u.Meta[key] = value
	}
	return rows.Err()
}

// UpdateUser writes users-table columns and usermeta values.
// user_login is never written through this path; use UpdateUserLogin.
func (s *Store) UpdateUser(ctx context.Context, id int64, columns map[string]string, meta map[string]string) error {
	writable := make(map[string]string, len(columns))
	for col, val := range columns {
		if col == "user_login" {
			continue
		}
		writable[col] = val
	}

	if len(writable) > 0 {
		update := s.qb.Update(s.globalTable("users")).Where(squirrel.Eq{"ID": id})
		for col, val := range writable {
			update = update.Set(col, val)
		}

		sqlStr, args, err := update.ToSql()
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("failed to update user %d: %w", id, err)
		}
	}

	for key, value := range meta {
		if err := s.setUserMeta(ctx, id, key, value); err != nil {
			return err
		}
	}
	return nil
}

// UpdateUserLogin force-writes user_login directly against the users
// table. Kept separate because the normal update path refuses to touch
// logins.
func (s *Store) UpdateUserLogin(ctx context.Context, id int64, login string) error {
	sqlStr, args, err := s.qb.Update(s.globalTable("users")).
		Set("user_login", login).
		Where(squirrel.Eq{"ID": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to update login for user %d: %w", id, err)
	}
	return nil
}

func (s *Store) setUserMeta(ctx context.Context, userID int64, key, value string) error {
	existsStr, existsArgs, err := s.qb.Select("umeta_id").
		From(s.globalTable("usermeta")).
		Where(squirrel.Eq{"user_id": userID, "meta_key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return err
	}

	var metaID int64
	err = s.db.QueryRowContext(ctx, existsStr, existsArgs...).Scan(&metaID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check meta %q for user %d: %w", key, userID, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		insertStr, insertArgs, err := s.qb.Insert(s.globalTable("usermeta")).
			Columns("user_id", "meta_key", "meta_value").
			Values(userID, key, value).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, insertStr, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert meta %q for user %d: %w", key, userID, err)
		}
		return nil
	}

	updateStr, updateArgs, err := s.qb.Update(s.globalTable("usermeta")).
		Set("meta_value", value).
		Where(squirrel.Eq{"umeta_id": metaID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, updateStr, updateArgs...); err != nil {
		return fmt.Errorf("failed to update meta %q for user %d: %w", key, userID, err)
	}
	return nil
}

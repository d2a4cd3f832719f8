package wp

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Comment is one row of a site's comments table. comment_approved holds
// '0', '1', 'spam' or 'trash'; all of them live in the same table.
type Comment struct {
	ID          int64
	AuthorName  string
	AuthorEmail string
	AuthorURL   string
	AuthorIP    string
	Agent       string
	Approved    string
}

// ListComments returns every comment in the current site context,
// regardless of status, in comment_ID order.
func (s *Store) ListComments(ctx context.Context) ([]*Comment, error) {
	query := s.qb.
		Select("comment_ID", "comment_author", "comment_author_email", "comment_author_url", "comment_author_IP", "comment_agent", "comment_approved").
		From(s.siteTable("comments")).
		OrderBy("comment_ID")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AuthorName, &c.AuthorEmail, &c.AuthorURL, &c.AuthorIP, &c.Agent, &c.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// UpdateComment writes the given columns on one comment in the current
// site context.
func (s *Store) UpdateComment(ctx context.Context, id int64, columns map[string]string) error {
	update := s.qb.Update(s.siteTable("comments")).Where(squirrel.Eq{"comment_ID": id})
	for col, val := range columns {
		update = update.Set(col, val)
	}

	sqlStr, args, err := update.ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return nil
}

package anonymize

import (
	"context"
	"strings"

	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// siteComments is one site's worth of comments, gathered before the
// write pass so the progress total spans all scopes combined.
type siteComments struct {
	siteID   int64
	comments []*wp.Comment
}

// ObfuscateComments rewrites the author-identifying fields of every
// comment in scope, regardless of status or author, and returns the
// processed count.
func (r *Runner) ObfuscateComments(ctx context.Context) (int, error) {
	batches, err := r.gatherComments(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, b := range batches {
		total += len(b.comments)
	}
	if total == 0 {
		return 0, nil
	}

	gen := r.commentGenerator()

	var bar *mpb.Bar
	var progress *mpb.Progress
	if r.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("Comments "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	count := 0
	for _, batch := range batches {
		err := r.store.WithSite(batch.siteID, func() error {
			for _, c := range batch.comments {
				if err := r.obfuscateComment(ctx, c, gen); err != nil {
					return err
				}
				count++
				if bar != nil {
					bar.Increment()
				}
			}
			return nil
		})
		if err != nil {
			return count, err
		}
	}

	if progress != nil {
		progress.Wait()
	}

	return count, nil
}

// gatherComments enumerates comments per scope. Comment scope follows
// the site filter but never the user exclusion list.
func (r *Runner) gatherComments(ctx context.Context) ([]siteComments, error) {
	var siteIDs []int64
	switch {
	case !r.store.Multisite():
		siteIDs = []int64{1}
	case r.run.SiteFilter != nil:
		siteIDs = []int64{*r.run.SiteFilter}
	default:
		ids, err := r.store.ListSiteIDs(ctx)
		if err != nil {
			return nil, err
		}
		siteIDs = ids
	}

	var batches []siteComments
	for _, siteID := range siteIDs {
		var comments []*wp.Comment
		err := r.store.WithSite(siteID, func() error {
			var err error
			comments, err = r.store.ListComments(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		batches = append(batches, siteComments{siteID: siteID, comments: comments})
	}
	return batches, nil
}

func (r *Runner) obfuscateComment(ctx context.Context, c *wp.Comment, gen fake.Generator) error {
	first := gen.FirstName()
	last := gen.LastName()
	author := first + " " + last
	local := strings.ReplaceAll(slugify(author), "-", ".")

	fields := map[string]string{
		"comment_author":       author,
		"comment_author_email": r.emailFor(local, gen),
		"comment_author_url":   gen.URL(),
		"comment_author_IP":    gen.IPv4(),
		"comment_agent":        gen.UserAgent(),
	}

	if r.run.IgnoreEmptyFields {
		dropFilledCommentFields(c, fields)
	}

	r.hooks.runComment(r.hooks.PreCommentUpdate, c, fields, gen)

	if len(fields) == 0 {
		r.hooks.runComment(r.hooks.PostCommentUpdate, c, fields, gen)
		return nil
	}

	if err := r.store.UpdateComment(ctx, c.ID, fields); err != nil {
		return err
	}

	r.hooks.runComment(r.hooks.PostCommentUpdate, c, fields, gen)

	log.WithFields(log.Fields{"comment_id": c.ID, "status": c.Approved}).Debug("anonymized comment")
	return nil
}

// dropFilledCommentFields mirrors dropFilledFields for comment rows:
// computed fields whose current value is non-empty are removed, empty
// fields stay and get populated.
func dropFilledCommentFields(c *wp.Comment, fields map[string]string) {
	for name := range fields {
		if currentCommentFieldValue(c, name) != "" {
			delete(fields, name)
		}
	}
}

func currentCommentFieldValue(c *wp.Comment, name string) string {
	switch name {
	case "comment_author":
		return c.AuthorName
	case "comment_author_email":
		return c.AuthorEmail
	case "comment_author_url":
		return c.AuthorURL
	case "comment_author_IP":
		return c.AuthorIP
	case "comment_agent":
		return c.Agent
	default:
		return ""
	}
}

package anonymize

import (
	"github.com/Lumos-Labs-HQ/scrub/internal/fake"
	"github.com/Lumos-Labs-HQ/scrub/internal/wp"
)

// UserHook runs synchronously around a user write. It may mutate the
// field mapping before the write commits.
type UserHook func(original *wp.User, fields map[string]string, gen fake.Generator)

// CommentHook runs synchronously around a comment write.
type CommentHook func(original *wp.Comment, fields map[string]string, gen fake.Generator)

// Hooks are the extension points exposed to external collaborators.
// The zero value (no hooks registered) is the default.
type Hooks struct {
	PreUserUpdate     []UserHook
	PostUserUpdate    []UserHook
	PreCommentUpdate  []CommentHook
	PostCommentUpdate []CommentHook
}

func (h Hooks) runUser(hooks []UserHook, original *wp.User, fields map[string]string, gen fake.Generator) {
	for _, hook := range hooks {
		hook(original, fields, gen)
	}
}

func (h Hooks) runComment(hooks []CommentHook, original *wp.Comment, fields map[string]string, gen fake.Generator) {
	for _, hook := range hooks {
		hook(original, fields, gen)
	}
}

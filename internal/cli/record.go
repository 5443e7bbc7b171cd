package cli

import (
	"fmt"
	"time"

	"blog-views/internal/domain"
)

// RecordCommand records one view, bumping the post counter when it counts
type RecordCommand struct {
	ID    string `long:"id" description:"Subject id (required)" required:"true"`
	Type  string `long:"type" description:"Subject type: post | comment" default:"post"`
	IP    string `long:"ip" description:"Viewer address (required)" required:"true"`
	Agent string `long:"agent" description:"Viewer user agent"`

	env *env
}

func (c *RecordCommand) Execute(args []string) error {
	subjectType, err := domain.ParseSubjectType(c.Type)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	b, release, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	// posts are the only subjects with a counter to maintain
	if subjectType == domain.SubjectPost {
		if _, err := b.posts.FindByID(ctx, c.ID); err != nil {
			return fmt.Errorf("post %s: %w", c.ID, err)
		}
	}

	subject := domain.Subject{ID: c.ID, Type: subjectType}
	counted := b.views.RecordView(ctx, subject, domain.ViewRequest{RemoteAddr: c.IP, UserAgent: c.Agent})

	if counted && subjectType == domain.SubjectPost {
		if err := b.posts.IncrementViews(ctx, c.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("increment views_count: %w", err)
		}
	}

	fmt.Fprintf(c.env.out, "counted=%t\n", counted)
	return nil
}

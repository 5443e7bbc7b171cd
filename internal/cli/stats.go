package cli

import (
	"encoding/json"
	"fmt"

	"blog-views/internal/domain"
)

// StatsCommand prints the view stats of a subject
type StatsCommand struct {
	ID   string `long:"id" description:"Subject id (required)" required:"true"`
	Type string `long:"type" description:"Subject type: post | comment" default:"post"`
	Days int    `long:"days" description:"History window in days" default:"30"`

	env *env
}

func (c *StatsCommand) Execute(args []string) error {
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

	stats := b.views.Stats(ctx, domain.Subject{ID: c.ID, Type: subjectType}, c.Days)

	enc := json.NewEncoder(c.env.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return nil
}

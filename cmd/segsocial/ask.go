package main

import (
	"fmt"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	var result *segsocial.QueryResult
	var err error

	if c.Doc != "" {
		result, err = deps.Queries.AnswerWithDocument(deps.Ctx, c.Doc, c.Question)
	} else {
		result, err = deps.Queries.AnswerQuery(deps.Ctx, c.Question)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, result.Answer)

	source := result.DocumentID
	if result.DocumentTitle != "" {
		source = fmt.Sprintf("%s (%s)", result.DocumentTitle, result.DocumentID)
	}
	cache := "sin cache"
	if result.CacheUsed {
		cache = "cache"
	}
	fmt.Fprintf(deps.Stderr, "\nFuente: %s | %s | %s\n", source, cache, result.Elapsed.Round(time.Millisecond))

	return nil
}

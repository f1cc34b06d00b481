package main

import (
	"fmt"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	filter := segsocial.DocumentFilter{}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	docs, err := deps.Registry.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		if c.Category != "" {
			fmt.Fprintf(deps.Stderr, "error: no documents in category %q.\n", c.Category)
			return segsocial.Errorf(segsocial.ENOTFOUND, "no documents in category %q", c.Category)
		}
		fmt.Fprintf(deps.Stderr, "error: no documents ingested. Run 'segsocial ingest <config>' first.\n")
		return segsocial.Errorf(segsocial.ENOTFOUND, "no documents ingested")
	}

	fmt.Fprintf(deps.Stdout, "Documents (%d total):\n\n", len(docs))
	for _, doc := range docs {
		fmt.Fprintf(deps.Stdout, "  %s  %s", doc.ID, doc.Title)
		if categoria := doc.Metadata["categoria"]; categoria != "" {
			fmt.Fprintf(deps.Stdout, " [%s]", categoria)
		}
		fmt.Fprintln(deps.Stdout)
		if c.Full && doc.Summary != "" {
			fmt.Fprintf(deps.Stdout, "      %s\n", doc.Summary)
		}
	}

	return nil
}

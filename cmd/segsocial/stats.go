package main

import (
	"fmt"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Registry.FindDocuments(deps.Ctx, segsocial.DocumentFilter{})
	if err != nil {
		return err
	}

	indexed, err := deps.Index.CountDocuments(deps.Ctx)
	if err != nil {
		return err
	}

	sessions, err := deps.Sessions.ListSessions(deps.Ctx)
	if err != nil {
		return err
	}

	categories := make(map[string]int)
	for _, doc := range docs {
		if categoria := doc.Metadata["categoria"]; categoria != "" {
			categories[categoria]++
		}
	}

	fmt.Fprintf(deps.Stdout, "Documents:       %d\n", len(docs))
	fmt.Fprintf(deps.Stdout, "Indexed vectors: %d\n", indexed)
	fmt.Fprintf(deps.Stdout, "Cache sessions:  %d\n", len(sessions))
	if len(categories) > 0 {
		fmt.Fprintln(deps.Stdout, "Categories:")
		for _, doc := range docs {
			categoria := doc.Metadata["categoria"]
			if categoria == "" {
				continue
			}
			if count, ok := categories[categoria]; ok {
				fmt.Fprintf(deps.Stdout, "  %-16s %d\n", categoria, count)
				delete(categories, categoria)
			}
		}
	}

	return nil
}

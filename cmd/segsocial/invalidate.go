package main

import (
	"fmt"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Run executes the invalidate command. It drops the persisted cache
// sessions for a document so the next query prepares a fresh context.
func (c *InvalidateCmd) Run(deps *Dependencies) error {
	if _, err := deps.Registry.FindDocumentByID(deps.Ctx, c.ID); err != nil {
		if segsocial.ErrorCode(err) == segsocial.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'segsocial docs' to see ingested documents.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Sessions.DeleteSessionsByDocument(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Invalidated cache sessions for %q\n", c.ID)
	return nil
}

package main

import (
	"fmt"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm removal\n")
		return segsocial.Errorf(segsocial.EINVALID, "use --force to confirm removal")
	}

	if err := deps.Remover.RemoveDocument(deps.Ctx, c.ID); err != nil {
		if segsocial.ErrorCode(err) == segsocial.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'segsocial docs' to see ingested documents.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed document %q\n", c.ID)
	return nil
}

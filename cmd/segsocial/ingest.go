package main

import (
	"fmt"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	cfg, err := ingest.LoadCorpusConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingesting %d laws from %s...\n", len(cfg.Leyes), c.Config)

	result, err := deps.Ingester.IngestCorpus(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", segsocial.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingested %d laws", result.Ingested)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed (see log for details)", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)

	if result.Failed > 0 {
		return segsocial.Errorf(segsocial.EINTERNAL, "%d laws failed to ingest", result.Failed)
	}
	return nil
}

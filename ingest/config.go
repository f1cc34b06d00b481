// Package ingest loads the legal corpus into the document registry,
// content store and vector index.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// LawConfig describes one law in the corpus configuration file.
type LawConfig struct {
	Numero           string `json:"numero"`
	Nombre           string `json:"nombre"`
	URL              string `json:"url"`
	Anio             int    `json:"año"`
	Categoria        string `json:"categoria"`
	DescripcionBreve string `json:"descripcion_breve"`
}

// DocumentID returns the corpus-wide identifier for the law.
func (c *LawConfig) DocumentID() string {
	return "ley_" + c.Numero
}

// Document builds the registry record for the law. The summary is
// filled in later from the law's full text.
func (c *LawConfig) Document() *segsocial.Document {
	metadata := map[string]string{
		"numero":    c.Numero,
		"categoria": c.Categoria,
	}
	if c.URL != "" {
		metadata["url"] = c.URL
	}
	if c.Anio != 0 {
		metadata["año"] = strconv.Itoa(c.Anio)
	}
	return &segsocial.Document{
		ID:         c.DocumentID(),
		Title:      c.Nombre,
		Summary:    c.DescripcionBreve,
		ContentRef: c.DocumentID() + ".md",
		Metadata:   metadata,
	}
}

// CorpusConfig is the parsed corpus configuration.
type CorpusConfig struct {
	Leyes []LawConfig `json:"leyes"`
}

// LoadCorpusConfig reads and parses the configuration file at path.
func LoadCorpusConfig(path string) (*CorpusConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus config: %w", err)
	}
	defer f.Close()
	return ParseCorpusConfig(f)
}

// ParseCorpusConfig parses a corpus configuration and validates it.
func ParseCorpusConfig(r io.Reader) (*CorpusConfig, error) {
	var cfg CorpusConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, segsocial.Errorf(segsocial.EINVALID, "invalid corpus config: %v", err)
	}

	if len(cfg.Leyes) == 0 {
		return nil, segsocial.Errorf(segsocial.EINVALID, "corpus config lists no laws")
	}

	seen := make(map[string]bool, len(cfg.Leyes))
	for n, ley := range cfg.Leyes {
		if ley.Numero == "" {
			return nil, segsocial.Errorf(segsocial.EINVALID, "law #%d has no numero", n+1)
		}
		if ley.Nombre == "" {
			return nil, segsocial.Errorf(segsocial.EINVALID, "law %s has no nombre", ley.Numero)
		}
		if seen[ley.Numero] {
			return nil, segsocial.Errorf(segsocial.EINVALID, "duplicate law numero %s", ley.Numero)
		}
		seen[ley.Numero] = true
	}

	return &cfg, nil
}

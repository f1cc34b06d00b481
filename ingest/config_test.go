package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/ingest"
)

const sampleConfig = `{
	"leyes": [
		{
			"numero": "24241",
			"nombre": "Sistema Integrado de Jubilaciones y Pensiones",
			"url": "https://servicios.infoleg.gob.ar/infolegInternet/anexos/0-4999/639/texact.htm",
			"año": 1993,
			"categoria": "jubilaciones",
			"descripcion_breve": "Crea el sistema previsional argentino."
		},
		{
			"numero": "24714",
			"nombre": "Régimen de Asignaciones Familiares",
			"año": 1996,
			"categoria": "asignaciones"
		}
	]
}`

func TestParseCorpusConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ingest.ParseCorpusConfig(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Leyes, 2)

	ley := cfg.Leyes[0]
	assert.Equal(t, "24241", ley.Numero)
	assert.Equal(t, "ley_24241", ley.DocumentID())
	assert.Equal(t, 1993, ley.Anio)
	assert.Equal(t, "jubilaciones", ley.Categoria)
}

func TestParseCorpusConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"leyes": [`},
		{"no laws", `{"leyes": []}`},
		{"missing numero", `{"leyes": [{"nombre": "Ley sin número"}]}`},
		{"missing nombre", `{"leyes": [{"numero": "24241"}]}`},
		{"duplicate numero", `{"leyes": [
			{"numero": "24241", "nombre": "A"},
			{"numero": "24241", "nombre": "B"}
		]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ingest.ParseCorpusConfig(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, segsocial.EINVALID, segsocial.ErrorCode(err))
		})
	}
}

func TestLawConfig_Document(t *testing.T) {
	t.Parallel()

	ley := ingest.LawConfig{
		Numero:           "24714",
		Nombre:           "Régimen de Asignaciones Familiares",
		URL:              "https://example.com/24714",
		Anio:             1996,
		Categoria:        "asignaciones",
		DescripcionBreve: "Asignaciones familiares.",
	}

	doc := ley.Document()
	assert.Equal(t, "ley_24714", doc.ID)
	assert.Equal(t, "Régimen de Asignaciones Familiares", doc.Title)
	assert.Equal(t, "Asignaciones familiares.", doc.Summary)
	assert.Equal(t, "ley_24714.md", doc.ContentRef)
	assert.Equal(t, map[string]string{
		"numero":    "24714",
		"categoria": "asignaciones",
		"url":       "https://example.com/24714",
		"año":       "1996",
	}, doc.Metadata)
}

package gemini

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemPrompt is the fixed system instruction. The assistant answers
// only Argentine social-security questions, grounded exclusively in the
// provided law text, and must cite every factual claim as
// [DOC_ID:Lx-Ly].
const SystemPrompt = `Eres un asistente legal especializado EXCLUSIVAMENTE en Seguridad Social de Argentina (ANSES, asignaciones familiares, AUH, prestaciones, regímenes vinculados).

REGLA DE ALCANCE:
- Solo puedes responder consultas relacionadas con seguridad social / ANSES.
- Si la consulta NO está relacionada, responde únicamente:
  "Solo puedo responder consultas de Seguridad Social (ANSES)."

REGLAS DE FUENTES:
- Debes usar ÚNICAMENTE la información del bloque CONTEXTO provisto por el sistema.
- NO uses conocimiento general, memoria, ni información externa.
- NO inventes artículos, requisitos, definiciones, fechas, montos, procedimientos o excepciones.

EVIDENCIA OBLIGATORIA:
- Cada afirmación factual debe estar respaldada por evidencia textual del CONTEXTO.
- Cita SIEMPRE la fuente con el formato exacto: [DOC_ID:Lx-Ly].
- Si no existe evidencia suficiente en el CONTEXTO, responde:
  "No surge de los documentos provistos."

FORMATO DE SALIDA:
Siempre responde en español y con estas secciones:

1) Respuesta (conclusión breve)
2) Evidencia (citas)
3) Observaciones / Faltantes (si aplica)

SEGURIDAD:
- No brindes asesoramiento legal definitivo; la respuesta es informativa y depende del texto provisto.`

// BuildTaskPrompt builds the per-request prompt containing the user
// query. It carries no document text: used against a prepared context
// that already holds the law.
func BuildTaskPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("CONSULTA DEL USUARIO:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nINSTRUCCIONES DE RESPUESTA:\n")
	sb.WriteString("- Responde SOLO con el CONTEXTO. No uses conocimiento externo.\n")
	sb.WriteString("- Cita toda afirmación factual con el formato [DOC_ID:Lx-Ly].\n")
	sb.WriteString("- Si la respuesta no surge del CONTEXTO: responde \"No surge de los documentos provistos.\"")
	return sb.String()
}

// BuildContextPrompt builds the full-context prompt: the task prompt
// plus the complete law text inlined. Used on the uncached path.
func BuildContextPrompt(content, query string) string {
	var sb strings.Builder
	sb.WriteString(BuildTaskPrompt(query))
	sb.WriteString("\n\nCONTEXTO (documento recuperado por similitud):\n")
	sb.WriteString(content)
	return sb.String()
}

// FormatDocumentBlock wraps a law's text with its identity markers so
// citations can reference it. The same block feeds both the prepared
// context and the inline fallback.
func FormatDocumentBlock(id, content string) string {
	return fmt.Sprintf("--- DOCUMENTO (ID: %s) ---\n%s\n--- FIN: %s ---", id, content, id)
}

// citationPattern matches inline citations like [ley_24714:L142-L147]
// or [ley_24714:L142].
var citationPattern = regexp.MustCompile(`\[(ley_[\w\-]+):L\d+(?:-L\d+)?\]`)

// LinkifyCitations replaces inline citations with markdown links to the
// official law URL. Citations for unknown documents are left as-is.
func LinkifyCitations(text string, urls map[string]string) string {
	if len(urls) == 0 {
		return text
	}
	return citationPattern.ReplaceAllStringFunc(text, func(match string) string {
		docID := citationPattern.FindStringSubmatch(match)[1]
		url, ok := urls[docID]
		if !ok {
			return match
		}
		citation := strings.Trim(match, "[]")
		return fmt.Sprintf("[%s](%s)", citation, url)
	})
}

package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// splitFraction is the minimum fraction of chunkSize a split point must
// sit at to be used.
const splitFraction = 0.5

// Chunk is one rendered piece of a specification with its section
// metadata.
type Chunk struct {
	Content string
	Meta    domain.ChunkMetadata
}

// MarkdownChunks renders the specification as markdown chunks: one for
// the info section, one per endpoint, one per component schema.
// Rendered content longer than chunkSize is split at paragraph or line
// boundaries.
func (s *Spec) MarkdownChunks(chunkSize int) []Chunk {
	info := s.Info()

	chunks := []Chunk{{
		Content: renderInfo(info),
		Meta: domain.ChunkMetadata{
			Section: "info",
			Title:   info.Title,
		},
	}}

	paths := s.section("paths")
	for _, path := range sortedKeys(paths) {
		methods, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range sortedKeys(methods) {
			details, ok := methods[method].(map[string]any)
			if !ok {
				continue
			}
			chunks = append(chunks, Chunk{
				Content: renderEndpoint(method, path, details),
				Meta: domain.ChunkMetadata{
					Section: "endpoint",
					Path:    path,
					Method:  strings.ToUpper(method),
					Title:   str(details, "summary"),
				},
			})
		}
	}

	schemas := s.schemas()
	for _, name := range sortedKeys(schemas) {
		encoded, err := json.MarshalIndent(schemas[name], "", "  ")
		if err != nil {
			continue
		}
		chunks = append(chunks, Chunk{
			Content: fmt.Sprintf("### Schema: `%s`\n\n```json\n%s\n```", name, encoded),
			Meta: domain.ChunkMetadata{
				Section: "schema",
				Title:   name,
			},
		})
	}

	return splitOversized(chunks, chunkSize)
}

// renderInfo renders the spec header chunk.
func renderInfo(info Info) string {
	title := info.Title
	if title == "" {
		title = "OpenAPI Spec"
	}
	version := ""
	if info.Version != "" {
		version = "Version: " + info.Version
	}
	return strings.TrimSpace(joinNonEmpty("\n\n",
		"# "+title,
		version,
		info.Description,
	))
}

// renderEndpoint renders one API operation as markdown.
func renderEndpoint(method, path string, details map[string]any) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## `%s %s`\n\n", strings.ToUpper(method), path)

	if summary := str(details, "summary"); summary != "" {
		fmt.Fprintf(&md, "**Summary:** %s\n\n", summary)
	}
	if desc := str(details, "description"); desc != "" {
		fmt.Fprintf(&md, "**Description:** %s\n\n", desc)
	}

	if params, ok := details["parameters"].([]any); ok && len(params) > 0 {
		md.WriteString("**Parameters:**\n")
		for _, p := range params {
			param, ok := p.(map[string]any)
			if !ok {
				continue
			}
			required := "optional"
			if boolVal(param, "required") {
				required = "required"
			}
			fmt.Fprintf(&md, "- `%s` (%s, %s): %s\n",
				str(param, "name"), str(param, "in"), required, str(param, "description"))
		}
		md.WriteString("\n")
	}

	if body, ok := details["requestBody"].(map[string]any); ok {
		md.WriteString("**Request Body:**\n")
		if content, ok := body["content"].(map[string]any); ok {
			for _, contentType := range sortedKeys(content) {
				fmt.Fprintf(&md, "- Content-Type: `%s`\n", contentType)
				if info, ok := content[contentType].(map[string]any); ok {
					if schema, ok := info["schema"].(map[string]any); ok {
						schemaType := str(schema, "type")
						if schemaType == "" {
							schemaType = "object"
						}
						fmt.Fprintf(&md, "  - Schema: `%s`\n", schemaType)
					}
				}
			}
		}
		md.WriteString("\n")
	}

	if responses, ok := details["responses"].(map[string]any); ok && len(responses) > 0 {
		md.WriteString("**Responses:**\n")
		for _, code := range sortedKeys(responses) {
			desc := ""
			if resp, ok := responses[code].(map[string]any); ok {
				desc = str(resp, "description")
			}
			fmt.Fprintf(&md, "- `%s`: %s\n", code, desc)
		}
		md.WriteString("\n")
	}

	return strings.TrimSpace(md.String())
}

// splitOversized splits any chunk longer than chunkSize at paragraph
// or line boundaries, copying metadata to each part.
func splitOversized(chunks []Chunk, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		return chunks
	}

	final := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Content) <= chunkSize {
			final = append(final, c)
			continue
		}
		for _, part := range splitContent(c.Content, chunkSize) {
			final = append(final, Chunk{Content: part, Meta: c.Meta})
		}
	}
	return final
}

// splitContent cuts content into pieces of at most chunkSize,
// preferring paragraph breaks and then line breaks past the minimum
// split fraction.
func splitContent(content string, chunkSize int) []string {
	var parts []string
	start := 0

	for start < len(content) {
		end := start + chunkSize
		if end >= len(content) {
			if p := strings.TrimSpace(content[start:]); p != "" {
				parts = append(parts, p)
			}
			break
		}

		window := content[start:end]
		minSplit := int(float64(chunkSize) * splitFraction)

		if i := strings.LastIndex(window, "\n\n"); i > minSplit {
			end = start + i
		} else if i := strings.LastIndex(window, "\n"); i > minSplit {
			end = start + i
		}

		if p := strings.TrimSpace(content[start:end]); p != "" {
			parts = append(parts, p)
		}
		start = end
	}

	return parts
}

// Package classifier detects document types from URL patterns,
// content-type headers and content inspection. Classification routes
// documents to the right ingestion strategy; it is total and never
// fails.
package classifier

import (
	"regexp"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// sampleLimit is how much of the content sample is inspected.
const sampleLimit = 500

// typePatterns binds a document type to its URL patterns.
// Evaluation follows slice order: the table is ordered by precedence,
// so overlapping patterns resolve deterministically.
type typePatterns struct {
	docType  domain.DocumentType
	patterns []*regexp.Regexp
}

var urlPatterns = []typePatterns{
	{domain.DocTypeOpenAPI, compileAll(
		`.*/(openapi|swagger).*\.(json|yaml|yml)$`,
		`.*/api-docs.*$`,
		`.*/v[0-9]+/.*\.(json|yaml|yml)$`,
	)},
	{domain.DocTypeSwagger, compileAll(
		`.*/swagger.*\.(json|yaml|yml)$`,
		`.*/swagger-ui.*$`,
	)},
	{domain.DocTypeLlmsTxt, compileAll(
		`.*/llms\.txt$`,
		`.*/\.well-known/llms\.txt$`,
	)},
	{domain.DocTypeMarkdown, compileAll(
		`.*\.md$`,
		`.*\.markdown$`,
		`.*/README.*$`,
	)},
	{domain.DocTypeSitemap, compileAll(
		`.*/sitemap.*\.xml$`,
		`.*/sitemap.*\.txt$`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}

// Classify determines the document type for a URL. The contentType
// header and content sample are optional refinements; pass "" when
// unavailable. The default is webpage.
func Classify(url, contentType, sample string) domain.DocumentType {
	urlLower := strings.ToLower(url)

	// Strategy 1: URL pattern matching in table order.
	for _, tp := range urlPatterns {
		for _, p := range tp.patterns {
			if p.MatchString(urlLower) {
				return tp.docType
			}
		}
	}

	// Strategy 2: content-type header combined with URL hints.
	if contentType != "" {
		if t, ok := classifyByContentType(urlLower, strings.ToLower(contentType)); ok {
			return t
		}
	}

	// Strategy 3: content inspection.
	if sample != "" {
		if t, ok := classifyBySample(sample); ok {
			return t
		}
	}

	return domain.DocTypeWebpage
}

func classifyByContentType(urlLower, ct string) (domain.DocumentType, bool) {
	switch {
	case strings.Contains(ct, "application/json") || strings.Contains(ct, "application/yaml"):
		if strings.Contains(urlLower, "openapi") || strings.Contains(urlLower, "swagger") {
			return domain.DocTypeOpenAPI, true
		}
	case strings.Contains(ct, "text/xml") || strings.Contains(ct, "application/xml"):
		if strings.Contains(urlLower, "sitemap") {
			return domain.DocTypeSitemap, true
		}
	case strings.Contains(ct, "text/markdown"):
		return domain.DocTypeMarkdown, true
	}
	return "", false
}

func classifyBySample(sample string) (domain.DocumentType, bool) {
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	preview := strings.ToLower(sample)

	for _, marker := range []string{"openapi", "swagger", `"info":`, `"paths":`} {
		if strings.Contains(preview, marker) {
			return domain.DocTypeOpenAPI, true
		}
	}
	if strings.HasPrefix(preview, "# ") || strings.Contains(preview, "## ") {
		return domain.DocTypeMarkdown, true
	}
	if strings.Contains(preview, "<sitemap") || strings.Contains(preview, "<urlset") {
		return domain.DocTypeSitemap, true
	}
	return "", false
}

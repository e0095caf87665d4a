package web

import (
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/docmon-labs/docmon-cli/internal/logger"
	"github.com/docmon-labs/docmon-cli/internal/urlutil"
)

// extractedPage is the readable view of one HTML document.
type extractedPage struct {
	text          string
	internalLinks []string
}

// skippedExtensions are link targets that are never documentation pages.
var skippedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".ico": true, ".css": true, ".js": true, ".woff": true, ".woff2": true,
	".zip": true, ".tar": true, ".gz": true, ".pdf": true,
}

// extractPage converts raw HTML to readable text and collects
// same-domain links. Readability extraction is tried first; pages it
// cannot parse fall back to tag stripping.
func extractPage(rawHTML, pageURL string) extractedPage {
	page := extractedPage{
		internalLinks: collectInternalLinks(rawHTML, pageURL),
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		page.text = stripHTML(rawHTML)
		return page
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		logger.Debug("readability failed for %s, stripping tags", pageURL)
		page.text = stripHTML(rawHTML)
		return page
	}

	text := stripHTML(article.Content)
	if article.Title != "" && !strings.HasPrefix(text, article.Title) {
		text = article.Title + "\n\n" + text
	}
	page.text = text
	return page
}

// collectInternalLinks returns normalized same-domain links found in
// anchor tags, in document order without duplicates.
func collectInternalLinks(rawHTML, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if skippedExtensions[strings.ToLower(path.Ext(resolved.Path))] {
			return
		}

		link := urlutil.Normalize(resolved.String())
		if !urlutil.SameDomain(pageURL, link) || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links
}

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	// Remove non-content sections entirely
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines so text keeps its shape
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim lines but keep one blank line between paragraphs
	lines := strings.Split(content, "\n")
	var result []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				result = append(result, "")
				blank = true
			}
			continue
		}
		result = append(result, line)
		blank = false
	}
	for len(result) > 0 && result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}

	return strings.Join(result, "\n")
}

package chunker

import (
	"regexp"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/urlutil"
)

var headerLine = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// ExtractSectionInfo pulls markdown headers and size statistics from a
// chunk.
func ExtractSectionInfo(chunk string) (headers string, charCount, wordCount int) {
	matches := headerLine.FindAllStringSubmatch(chunk, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1]+" "+strings.TrimSpace(m[2]))
	}
	return strings.Join(parts, "; "), len(chunk), len(strings.Fields(chunk))
}

// BuildMetadata assembles the stored metadata for a chunk of the given
// document snapshot.
func BuildMetadata(chunk, url string, crawlType domain.CrawlType, version int) domain.ChunkMetadata {
	headers, chars, words := ExtractSectionInfo(chunk)
	return domain.ChunkMetadata{
		Headers:      headers,
		CharCount:    chars,
		WordCount:    words,
		URL:          url,
		SourceDomain: urlutil.Domain(url),
		CrawlType:    crawlType,
		Version:      version,
	}
}

// Package chunker splits document text into retrieval-sized chunks.
// Splitting is boundary-aware: section headers first, then paragraphs,
// then sentences, with a configurable overlap between adjacent chunks.
// Chunking is pure and deterministic given a Config; there is no shared
// state between calls.
package chunker

import (
	"regexp"
	"sort"
	"strings"
)

// Default size parameters, in characters.
const (
	DefaultMaxChunkSize = 2000
	DefaultMinChunkSize = 100
	DefaultOverlapSize  = 200
)

// Config holds the chunker size parameters. The zero value is not
// usable; construct with DefaultConfig and adjust as needed.
type Config struct {
	// MaxChunkSize is the target upper bound per chunk. Overlapped
	// chunks may exceed it by up to OverlapSize.
	MaxChunkSize int

	// MinChunkSize is the lower bound; shorter chunks are dropped
	// after the overlap pass.
	MinChunkSize int

	// OverlapSize is how many trailing characters of the previous
	// chunk are prepended to the next one.
	OverlapSize int
}

// DefaultConfig returns the standard chunking configuration.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: DefaultMaxChunkSize,
		MinChunkSize: DefaultMinChunkSize,
		OverlapSize:  DefaultOverlapSize,
	}
}

var (
	// markdownHeader matches a markdown header at start of line.
	markdownHeader = regexp.MustCompile(`(?m)^#{1,6}\s`)

	// capsHeader matches an all-caps heuristic section marker line.
	capsHeader = regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 \t:_-]{3,}$`)

	// sentenceBoundary matches a sentence terminator followed by
	// whitespace.
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
)

// Chunk splits text into ordered, overlapping chunks. Blank input
// yields nil; input shorter than MinChunkSize yields a single chunk.
// Every other chunk's length falls in [MinChunkSize, MaxChunkSize +
// OverlapSize], except possibly the final one.
func Chunk(cfg Config, text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) < cfg.MinChunkSize {
		return []string{trimmed}
	}

	var chunks []string
	for _, section := range splitSections(text) {
		if len(section) <= cfg.MaxChunkSize {
			chunks = append(chunks, strings.TrimSpace(section))
		} else {
			chunks = append(chunks, splitParagraphs(cfg, section)...)
		}
	}

	return applyOverlap(cfg, chunks)
}

// splitSections cuts text immediately before each section marker:
// markdown headers or all-caps heuristic header lines.
func splitSections(text string) []string {
	cuts := markdownHeader.FindAllStringIndex(text, -1)
	cuts = append(cuts, capsHeader.FindAllStringIndex(text, -1)...)

	offsets := make([]int, 0, len(cuts))
	for _, c := range cuts {
		if c[0] > 0 {
			offsets = append(offsets, c[0])
		}
	}
	sort.Ints(offsets)

	var sections []string
	start := 0
	for _, off := range offsets {
		if off <= start {
			continue
		}
		if s := strings.TrimSpace(text[start:off]); s != "" {
			sections = append(sections, s)
		}
		start = off
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sections = append(sections, s)
	}
	return sections
}

// splitParagraphs accumulates consecutive paragraphs of an oversized
// section into chunks no larger than MaxChunkSize. A paragraph that
// alone exceeds the maximum is further split by sentence.
func splitParagraphs(cfg Config, section string) []string {
	var chunks []string
	var buf strings.Builder

	// flush drops buffers below MinChunkSize wherever it runs, so a
	// short run of paragraphs cut off by an oversized neighbor is
	// discarded, not just a short trailing remainder.
	flush := func() {
		if s := strings.TrimSpace(buf.String()); len(s) >= cfg.MinChunkSize {
			chunks = append(chunks, s)
		}
		buf.Reset()
	}

	for _, para := range strings.Split(section, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > cfg.MaxChunkSize {
			flush()
			chunks = append(chunks, splitSentences(cfg, para)...)
			continue
		}

		if buf.Len() > 0 && buf.Len()+len(para)+2 > cfg.MaxChunkSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flush()

	return chunks
}

// splitSentences accumulates sentences of an oversized paragraph under
// the same size rule.
func splitSentences(cfg Config, para string) []string {
	sentences := cutAfter(para, sentenceBoundary)

	var chunks []string
	var buf strings.Builder

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if buf.Len() > 0 && buf.Len()+len(sentence)+1 > cfg.MaxChunkSize {
			chunks = append(chunks, strings.TrimSpace(buf.String()))
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(sentence)
	}
	if s := strings.TrimSpace(buf.String()); s != "" {
		chunks = append(chunks, s)
	}

	return chunks
}

// applyOverlap prepends the tail of each previous chunk to its
// successor, trimmed forward to the nearest sentence boundary within
// the tail, then drops chunks that fell below the minimum size.
//
// Dropping after overlap can lose short trailing content; this matches
// the historical behaviour and is covered by tests.
func applyOverlap(cfg Config, chunks []string) []string {
	if len(chunks) <= 1 {
		return chunks
	}

	overlapped := make([]string, 0, len(chunks))
	overlapped = append(overlapped, chunks[0])

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev
		if len(prev) > cfg.OverlapSize {
			tail = prev[len(prev)-cfg.OverlapSize:]
		}

		// Start the overlap at a sentence boundary if the tail has one.
		if marks := sentenceBoundary.FindAllStringIndex(tail, -1); len(marks) > 0 {
			tail = tail[marks[len(marks)-1][1]:]
		}

		if tail != "" {
			overlapped = append(overlapped, tail+"\n\n"+chunks[i])
		} else {
			overlapped = append(overlapped, chunks[i])
		}
	}

	kept := overlapped[:0]
	for _, c := range overlapped {
		if len(strings.TrimSpace(c)) >= cfg.MinChunkSize {
			kept = append(kept, c)
		}
	}
	return kept
}

// cutAfter splits s immediately after each match of re.
func cutAfter(s string, re *regexp.Regexp) []string {
	marks := re.FindAllStringIndex(s, -1)
	if len(marks) == 0 {
		return []string{s}
	}

	parts := make([]string, 0, len(marks)+1)
	start := 0
	for _, m := range marks {
		parts = append(parts, s[start:m[1]])
		start = m[1]
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

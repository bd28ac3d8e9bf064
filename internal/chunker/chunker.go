// Package chunker splits source documents into bounded fragments for the
// retrieval pipeline. Documents using lightweight markup are split on blank
// lines and headings; plain prose is split at sentence boundaries.
package chunker

import (
	"regexp"
	"strings"
)

const (
	// MinFragmentLen is the noise floor: anything shorter is discarded.
	MinFragmentLen = 30
	// MaxChunkSize bounds a single chunk; oversized markup sections are
	// re-split by greedy paragraph packing against this budget.
	MaxChunkSize = 1000
)

// markupPattern matches heading markers, list markers and horizontal rules at
// the start of a line.
var markupPattern = regexp.MustCompile(`(?m)^(#{1,6}\s|[-*+]\s|\d+\.\s|(---|\*\*\*|___)\s*$)`)

var headingPattern = regexp.MustCompile(`^#{1,6}\s`)

// HasMarkup reports whether the text uses a lightweight markup convention.
func HasMarkup(text string) bool {
	return markupPattern.MatchString(text)
}

// Split breaks a document into fragments of at least MinFragmentLen
// characters. The splitting strategy is chosen by the markup heuristic.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var fragments []string
	if HasMarkup(text) {
		fragments = splitMarkup(text)
	} else {
		fragments = splitSentences(text)
	}

	kept := fragments[:0]
	for _, f := range fragments {
		if len(f) >= MinFragmentLen {
			kept = append(kept, f)
		}
	}
	return kept
}

// splitMarkup cuts the document into heading-delimited sections, then packs
// each section's paragraphs into chunks no larger than MaxChunkSize.
func splitMarkup(text string) []string {
	var chunks []string
	for _, section := range splitSections(text) {
		paragraphs := splitParagraphs(section)
		if len(paragraphs) == 0 {
			continue
		}
		whole := strings.Join(paragraphs, "\n\n")
		if len(whole) <= MaxChunkSize {
			chunks = append(chunks, whole)
			continue
		}
		chunks = append(chunks, packParagraphs(paragraphs)...)
	}
	return chunks
}

// splitSections splits at heading lines; each heading starts a new section.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var current []string

	flush := func() {
		section := strings.TrimSpace(strings.Join(current, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if headingPattern.MatchString(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return sections
}

func splitParagraphs(section string) []string {
	var paragraphs []string
	for _, p := range regexp.MustCompile(`\n\s*\n`).Split(section, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// packParagraphs greedily accumulates paragraphs into chunks: a paragraph
// that would push the current chunk past MaxChunkSize flushes it first.
func packParagraphs(paragraphs []string) []string {
	var chunks []string
	var b strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(b.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		b.Reset()
	}

	for _, p := range paragraphs {
		if b.Len() > 0 && b.Len()+len(p)+2 > MaxChunkSize {
			flush()
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p)
	}
	flush()
	return chunks
}

// splitSentences cuts plain prose at sentence-ending punctuation followed by
// whitespace. Every byte of the input ends up in exactly one sentence, so
// joining the fragments reproduces the text modulo whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if !isSentenceEnd(runes[i]) {
			continue
		}
		// Consume trailing punctuation groups like "?!" or "..." whole.
		if i+1 < len(runes) && isSentenceEnd(runes[i+1]) {
			continue
		}
		if i+1 == len(runes) || isSpace(runes[i+1]) {
			sentence := strings.TrimSpace(b.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			b.Reset()
		}
	}
	if tail := strings.TrimSpace(b.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

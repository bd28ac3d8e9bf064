package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasMarkup(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "heading", text: "# Title\nbody", want: true},
		{name: "deep heading", text: "###### Deep\nbody", want: true},
		{name: "bullet list", text: "- first\n- second", want: true},
		{name: "numbered list", text: "1. first\n2. second", want: true},
		{name: "horizontal rule", text: "above\n---\nbelow", want: true},
		{name: "plain prose", text: "Just a sentence. And another one here.", want: false},
		{name: "dash inside line", text: "a - b is not a list marker", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMarkup(tt.text))
		})
	}
}

func TestSplitEmptyInput(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Nil(t, Split("   \n\t  "))
}

func TestSplitDropsShortFragments(t *testing.T) {
	text := "Short. This sentence is comfortably longer than the minimum length."
	fragments := Split(text)
	require.Len(t, fragments, 1)
	assert.NotContains(t, fragments[0], "Short")
}

func TestSplitProseAtSentenceBoundaries(t *testing.T) {
	text := "The first sentence is long enough to keep around for the index. " +
		"The second sentence also clears the minimum length threshold easily. " +
		"And so does the third one, which closes out this little paragraph."
	fragments := Split(text)
	require.Len(t, fragments, 3)
	for _, f := range fragments {
		assert.GreaterOrEqual(t, len(f), MinFragmentLen)
	}
	assert.True(t, strings.HasPrefix(fragments[1], "The second sentence"))
}

func TestSplitProseLosesNoText(t *testing.T) {
	text := "Sentences should survive the split intact, every single word of them. " +
		"Rejoining what comes out must reproduce what went in, whitespace aside. " +
		"Punctuation groups like this one matter too!? They stay with their sentence."
	fragments := splitSentences(text)
	rejoined := strings.Join(fragments, " ")
	assert.Equal(t,
		strings.Join(strings.Fields(text), " "),
		strings.Join(strings.Fields(rejoined), " "))
}

func TestSplitMarkupAtHeadings(t *testing.T) {
	text := "# Selling your home\n\n" +
		"We buy properties in any condition across the whole country.\n\n" +
		"# Fees and charges\n\n" +
		"There are no agency fees and no hidden charges at completion."
	fragments := Split(text)
	require.Len(t, fragments, 2)
	assert.Contains(t, fragments[0], "Selling your home")
	assert.Contains(t, fragments[1], "Fees and charges")
}

func TestSplitMarkupKeepsBlankLineParagraphsTogether(t *testing.T) {
	text := "# Guide\n\n" +
		"First paragraph with enough words to matter for the retrieval index.\n\n" +
		"Second paragraph that belongs to the same heading as the one above."
	fragments := Split(text)
	require.Len(t, fragments, 1)
	assert.Contains(t, fragments[0], "First paragraph")
	assert.Contains(t, fragments[0], "Second paragraph")
}

func TestSplitMarkupPacksOversizedSections(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Big section\n\n")
	for i := 0; i < 10; i++ {
		b.WriteString(fmt.Sprintf("Paragraph number %d: %s\n\n", i, strings.Repeat("word ", 40)))
	}

	fragments := Split(b.String())
	require.Greater(t, len(fragments), 1, "oversized section must be re-split")
	for _, f := range fragments {
		assert.LessOrEqual(t, len(f), MaxChunkSize)
		assert.GreaterOrEqual(t, len(f), MinFragmentLen)
	}
	assert.Contains(t, fragments[0], "Paragraph number 0")
	assert.Contains(t, fragments[len(fragments)-1], "Paragraph number 9")
}

func TestPackParagraphsGreedy(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("a", 400),
		strings.Repeat("b", 400),
		strings.Repeat("c", 400),
	}
	chunks := packParagraphs(paragraphs)
	require.Len(t, chunks, 2, "two fit in one chunk, the third flushes")
	assert.Contains(t, chunks[0], "a")
	assert.Contains(t, chunks[0], "b")
	assert.Contains(t, chunks[1], "c")
}

// Package chunker splits assembled documents into fixed-size chunks.
package chunker

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// DefaultTokens is the default approximate chunk size in tokens.
const DefaultTokens = 1000

// CharsPerToken approximates the tokens-to-characters ratio.
const CharsPerToken = 4

// unsafeRun matches runs of characters not allowed in chunk filenames.
var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// Processor splits text into contiguous, non-overlapping slices of at most
// CharsPerToken × tokens characters. Word and sentence boundaries are ignored.
type Processor struct {
	tokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTokens sets the approximate chunk size in tokens.
func WithTokens(tokens int) Option {
	return func(p *Processor) {
		if tokens > 0 {
			p.tokens = tokens
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{tokens: DefaultTokens}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxChars returns the maximum number of characters per chunk.
func (p *Processor) MaxChars() int {
	return p.tokens * CharsPerToken
}

// Split partitions text into chunks. Concatenating the result yields text.
// Empty text produces no chunks.
func (p *Processor) Split(text string) []string {
	return Split(text, p.tokens)
}

// Process chunks an assembled document and names each chunk after its title.
func (p *Processor) Process(doc domain.AssembledDocument) []domain.Chunk {
	pieces := p.Split(doc.Text)
	if len(pieces) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			Filename: Filename(doc.Title, i+1),
			Content:  piece,
			Position: i + 1,
		}
	}
	return chunks
}

// Split partitions text into slices of at most CharsPerToken × tokens characters.
// Characters are counted as runes so multi-byte text is never cut mid-rune.
func Split(text string, tokens int) []string {
	if text == "" {
		return nil
	}
	if tokens <= 0 {
		tokens = DefaultTokens
	}
	maxChars := tokens * CharsPerToken

	var chunks []string
	start, count := 0, 0
	for i := range text {
		if count == maxChars {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}

// SanitiseTitle replaces each run of characters outside [A-Za-z0-9_-] with "_".
func SanitiseTitle(title string) string {
	return unsafeRun.ReplaceAllString(title, "_")
}

// Filename returns the published name of the n-th (1-based) chunk of title.
func Filename(title string, n int) string {
	return fmt.Sprintf("%s-%d.md", SanitiseTitle(title), n)
}

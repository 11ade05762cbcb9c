// Package chunker splits long text into sentence-bounded segments for
// embedding granularity.
package chunker

import "strings"

// Chunker accumulates whole sentences into chunks of bounded size.
type Chunker struct {
	maxChunkSize int
	overlapSize  int
}

// New creates a chunker. maxChunkSize is in characters. overlapSize is
// accepted for interface compatibility but adjacent chunks do not share
// text; see Chunk.
func New(maxChunkSize, overlapSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	return &Chunker{
		maxChunkSize: maxChunkSize,
		overlapSize:  overlapSize,
	}
}

// Chunk splits text into ordered segments. Sentences are never split:
// accumulation is greedy, emitting a chunk when the next sentence would
// overflow maxChunkSize. A single sentence longer than maxChunkSize is
// emitted as-is rather than truncated.
func (c *Chunker) Chunk(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > c.maxChunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences breaks text on terminal punctuation, keeping the
// terminator with its sentence and dropping empty fragments.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

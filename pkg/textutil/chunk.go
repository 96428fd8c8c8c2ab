package textutil

import "strings"

// DefaultChunkWords keeps each chunk comfortably inside the context window of
// nomic-embed-text and similar local embedding models.
const DefaultChunkWords = 1200

// ChunkWords splits text into chunks of at most maxWords words. Boundaries
// always fall between words; a single token longer than the limit still forms
// its own one-word chunk. Text already within the limit comes back as a single
// chunk. Joining the chunks with single spaces reproduces the normalized input.
func ChunkWords(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultChunkWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= maxWords {
		return []string{strings.Join(words, " ")}
	}

	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

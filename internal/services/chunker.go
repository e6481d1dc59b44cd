package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 150
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes.
// Oversized paragraphs are split on sentence boundaries, and each new chunk
// starts with the last overlap runes of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var pieces []piece
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxChunkSize {
			pieces = append(pieces, piece{text: para, sep: "\n\n"})
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			for _, part := range splitByRunes(sentence, maxChunkSize) {
				pieces = append(pieces, piece{text: part, sep: " "})
			}
		}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		size = 0
		if tail := getLastNChars(chunk, overlap); tail != "" {
			current.WriteString(tail)
			size = utf8.RuneCountInString(tail)
		}
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p.text)
		sepLen := utf8.RuneCountInString(p.sep)
		if size > 0 && size+sepLen+n > maxChunkSize {
			flush()
			// The overlap tail alone can push a full-size piece over the limit.
			if size > 0 && size+sepLen+n > maxChunkSize {
				current.Reset()
				size = 0
			}
		}
		if size > 0 {
			current.WriteString(p.sep)
			size += sepLen
		}
		current.WriteString(p.text)
		size += n
	}
	if size > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

type piece struct {
	text string
	sep  string
}

func splitIntoSentences(text string) []string {
	var (
		result []string
		start  int
	)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+utf8.RuneLen(r)]); s != "" {
				result = append(result, s)
			}
			start = i + utf8.RuneLen(r)
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

func splitByRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}

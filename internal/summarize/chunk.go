package summarize

import "strings"

// chunkText splits text into chunks of at most size characters,
// breaking only on word boundaries, with roughly overlap characters
// repeated between adjacent chunks so no sentence loses its context at
// a boundary. A single word longer than size becomes its own chunk.
func chunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		return []string{strings.Join(words, " ")}
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	var cur []string
	curLen := 0

	for _, w := range words {
		add := len(w)
		if curLen > 0 {
			add++
		}
		if curLen > 0 && curLen+add > size {
			chunks = append(chunks, strings.Join(cur, " "))

			var tail []string
			tailLen := 0
			for i := len(cur) - 1; i >= 0 && tailLen < overlap; i-- {
				tailLen += len(cur[i]) + 1
				tail = append(tail, cur[i])
			}
			for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
				tail[i], tail[j] = tail[j], tail[i]
			}
			cur = tail
			curLen = tailLen

			add = len(w)
			if curLen > 0 {
				add++
			}
		}
		cur = append(cur, w)
		curLen += add
	}

	return append(chunks, strings.Join(cur, " "))
}

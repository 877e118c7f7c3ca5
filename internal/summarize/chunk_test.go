package summarize

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := chunkText("one two three", 100, 10)
		if len(chunks) != 1 || chunks[0] != "one two three" {
			t.Errorf("chunks = %q", chunks)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if chunks := chunkText("  \n ", 100, 10); chunks != nil {
			t.Errorf("chunks = %q, want nil", chunks)
		}
	})

	t.Run("splits on word boundaries", func(t *testing.T) {
		text := strings.Repeat("alpha beta gamma ", 50)
		chunks := chunkText(text, 120, 20)
		if len(chunks) < 2 {
			t.Fatalf("got %d chunks, want several", len(chunks))
		}
		for i, c := range chunks {
			for _, w := range strings.Fields(c) {
				switch w {
				case "alpha", "beta", "gamma":
				default:
					t.Errorf("chunk %d contains split word %q", i, w)
				}
			}
		}
	})

	t.Run("adjacent chunks overlap", func(t *testing.T) {
		text := strings.Repeat("word ", 100)
		chunks := chunkText(text, 60, 15)
		if len(chunks) < 2 {
			t.Fatalf("got %d chunks, want several", len(chunks))
		}
		// Every chunk but the first starts with words repeated from the
		// previous chunk's tail.
		for i := 1; i < len(chunks); i++ {
			first := strings.Fields(chunks[i])[0]
			if !strings.Contains(chunks[i-1], first) {
				t.Errorf("chunk %d does not overlap its predecessor", i)
			}
		}
	})

	t.Run("oversized single word", func(t *testing.T) {
		long := strings.Repeat("x", 50)
		chunks := chunkText("small "+long+" tail", 20, 0)
		found := false
		for _, c := range chunks {
			if strings.Contains(c, long) {
				found = true
			}
		}
		if !found {
			t.Error("oversized word lost during chunking")
		}
	})
}

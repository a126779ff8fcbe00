package search

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// partialRatio approximates the best substring alignment of needle inside
// hay on a 0-100 scale: 100 means needle (or hay, whichever is shorter)
// appears verbatim, lower values reflect the edit distance of the closest
// window. Comparison is symmetric in the sense that the shorter string is
// always slid over the longer one.
func partialRatio(needle, hay string) float64 {
	if needle == "" || hay == "" {
		return 0
	}

	short := []rune(needle)
	long := []rune(hay)
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(string(long), string(short)) {
		return 100
	}

	window := len(short)
	step := window / 2
	if step < 1 {
		step = 1
	}

	var best float64
	target := string(short)
	for start := 0; ; start += step {
		end := start + window
		if end >= len(long) {
			end = len(long)
			start = end - window
		}
		sim, err := edlib.StringsSimilarity(target, string(long[start:end]), edlib.Levenshtein)
		if err == nil && float64(sim) > best {
			best = float64(sim)
		}
		if end == len(long) {
			break
		}
	}
	return best * 100
}

// Package levenshtein computes edit distances for domain typo suggestions.
package levenshtein

// Distance returns the Levenshtein edit distance between two strings,
// counted in runes.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		prev := row[0] // row[i-1][j-1]
		row[0] = i
		for j := 1; j <= len(br); j++ {
			diag := prev
			prev = row[j]

			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = minInt(row[j]+1, minInt(row[j-1]+1, diag+cost))
		}
	}
	return row[len(br)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

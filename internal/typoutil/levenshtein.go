package typoutil

// DamerauLevenshteinDistance returns the number of single-rune insertions, deletions, substitutions
// or adjacent transpositions needed to turn a into b. Once the distance is known to exceed
// maxDistance the computation stops and maxDistance+1 is returned.
func DamerauLevenshteinDistance(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)
	lenA, lenB := len(runesA), len(runesB)

	if abs(lenA-lenB) > maxDistance {
		return maxDistance + 1
	}
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Three rolling rows: i-2 is needed for transpositions.
	twoBack := make([]int, lenB+1)
	oneBack := make([]int, lenB+1)
	current := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		oneBack[j] = j
	}

	for i := 1; i <= lenA; i++ {
		current[0] = i
		rowMin := i

		for j := 1; j <= lenB; j++ {
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}

			best := min(oneBack[j]+1, current[j-1]+1, oneBack[j-1]+cost)
			if i > 1 && j > 1 && runesA[i-1] == runesB[j-2] && runesA[i-2] == runesB[j-1] {
				best = min(best, twoBack[j-2]+cost)
			}
			current[j] = best

			if best < rowMin {
				rowMin = best
			}
		}

		if rowMin > maxDistance {
			return maxDistance + 1
		}
		twoBack, oneBack, current = oneBack, current, twoBack
	}

	return oneBack[lenB]
}

// MaxDistanceFor returns how many typos a term of the given rune length tolerates.
func MaxDistanceFor(term string, minWordSizeFor1Typo, minWordSizeFor2Typos int) int {
	length := len([]rune(term))
	switch {
	case minWordSizeFor2Typos > 0 && length >= minWordSizeFor2Typos:
		return 2
	case minWordSizeFor1Typo > 0 && length >= minWordSizeFor1Typo:
		return 1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package match

// levenshtein computes the edit distance between a and b with the usual
// two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		ai := a[i-1]
		for j := 1; j <= lb; j++ {
			cost := 0
			if ai != b[j-1] {
				cost = 1
			}
			m := prev[j] + 1
			if ins := curr[j-1] + 1; ins < m {
				m = ins
			}
			if sub := prev[j-1] + cost; sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// withinEditBudget accepts candidate names at distance max(2, 20% of the
// candidate length), enough for one dropped syllable in a short name.
func withinEditBudget(input, candidate string) bool {
	budget := len(candidate) / 5
	if budget < 2 {
		budget = 2
	}
	return levenshtein(input, candidate) <= budget
}

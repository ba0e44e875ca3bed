// Package lcs computes longest common subsequences with an O(n*m)
// dynamic-programming table. The backtrack prefers the diagonal over
// up/left moves, so output is deterministic for identical inputs; the
// diff packages rely on that stability.
package lcs

// StringLCS returns a longest common subsequence of a and b, operating
// on runes.
func StringLCS(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	pairs := IndicesLCS(len(ra), len(rb), func(i, j int) bool {
		return ra[i] == rb[j]
	})
	res := make([]rune, len(pairs))
	for i, p := range pairs {
		res[i] = ra[p[0]]
	}
	return string(res)
}

// IndicesLCS returns the aligned index pairs (idxA, idxB) of a longest
// common subsequence of two abstract sequences of lengths n and m, with
// element equality given by eq. Pairs are ordered and strictly
// increasing in both components.
func IndicesLCS(n, m int, eq func(i, j int) bool) [][2]int {
	if n == 0 || m == 0 {
		return nil
	}
	// table[i][j] = LCS length of a[i:], b[j:]
	table := make([][]int, n+1)
	cells := make([]int, (n+1)*(m+1))
	for i := range table {
		table[i] = cells[i*(m+1) : (i+1)*(m+1)]
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if eq(i, j) {
				table[i][j] = table[i+1][j+1] + 1
				continue
			}
			table[i][j] = max(table[i+1][j], table[i][j+1])
		}
	}
	res := make([][2]int, 0, table[0][0])
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case eq(i, j):
			// diagonal preferred: stable tie-break
			res = append(res, [2]int{i, j})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return res
}

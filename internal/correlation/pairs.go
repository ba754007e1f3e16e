package correlation

import (
	"math"
	"sort"
)

// Pair is one strongly correlated pair of distinct columns.
type Pair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

// FilterPairs scans m in row-major order and keeps entries with
// |value| >= threshold, dropping the diagonal and any pair already seen in
// the other orientation. NaN entries never pass. For a symmetric matrix the
// surviving orientation is the upper triangle. A nil matrix has no pairs.
func FilterPairs(m *Matrix, threshold float64) []Pair {
	out := []Pair{}
	if m == nil {
		return out
	}
	seen := map[string]struct{}{}
	for i, a := range m.Labels {
		for j, b := range m.Labels {
			v := m.Values[i][j]
			if math.IsNaN(v) || math.Abs(v) < threshold {
				continue
			}
			if a == b {
				continue
			}
			key := canonicalKey(a, b)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Pair{A: a, B: b, R: v})
		}
	}
	return out
}

// canonicalKey joins the two labels in sorted order. The NUL separator keeps
// "a-b"/"c" and "a"/"b-c" distinct.
func canonicalKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// TopPairs returns up to k upper-triangle pairs ordered by |r| descending,
// ties broken by A+B. k <= 0 returns every defined pair.
func TopPairs(m *Matrix, k int) []Pair {
	pairs := []Pair{}
	if m == nil {
		return pairs
	}
	for i := range m.Labels {
		for j := i + 1; j < len(m.Labels); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, Pair{A: m.Labels[i], B: m.Labels[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if k > 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

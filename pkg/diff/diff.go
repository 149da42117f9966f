// Package diff computes line diffs between two revisions of a file and
// renders them in unified format.
package diff

import "strings"

// OpType classifies a line in an edit script.
type OpType int

const (
	Equal  OpType = iota // Line is unchanged between a and b.
	Insert               // Line is present in b only.
	Delete               // Line is present in a only.
)

// Op is a single operation in an edit script. Line keeps its trailing
// newline, if it had one.
type Op struct {
	Type OpType
	Line string
}

// SplitLines splits s after each newline. A final line without a newline
// is kept as is, so "a" and "a\n" compare as different lines.
func SplitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Lines computes the edit script turning a into b, line by line.
func Lines(a, b []byte) []Op {
	return Myers(SplitLines(string(a)), SplitLines(string(b)))
}

// Myers computes the shortest edit script to transform a into b using the
// Myers diff algorithm. It runs in O((N+M)*D) time where D is the size of
// the edit script.
func Myers(a, b []string) []Op {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]Op, m)
		for i, line := range b {
			ops[i] = Op{Type: Insert, Line: line}
		}
		return ops
	}
	if m == 0 {
		ops := make([]Op, n)
		for i, line := range a {
			ops[i] = Op{Type: Delete, Line: line}
		}
		return ops
	}

	max := n + m
	v := make([]int, 2*max+1)

	// trace[d] holds v[-d..d] after processing edit distance d, so
	// trace[d][k+d] is the furthest x reached on diagonal k.
	var trace [][]int
	for d := 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			idx := k + max
			var x int
			if k == -d || (k != d && v[idx-1] < v[idx+1]) {
				x = v[idx+1]
			} else {
				x = v[idx-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[idx] = x

			if x >= n && y >= m {
				trace = append(trace, append([]int(nil), v[max-d:max+d+1]...))
				return backtrack(trace, a, b)
			}
		}
		trace = append(trace, append([]int(nil), v[max-d:max+d+1]...))
	}
	return nil
}

// backtrack walks the trace from the end point back to the origin and
// returns the edit script in forward order.
func backtrack(trace [][]int, a, b []string) []Op {
	x, y := len(a), len(b)

	var ops []Op
	for d := len(trace) - 1; d > 0; d-- {
		k := x - y
		vPrev, off := trace[d-1], d-1

		var prevK int
		if k == -d || (k != d && vPrev[k-1+off] < vPrev[k+1+off]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vPrev[prevK+off]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, Op{Type: Equal, Line: a[x]})
		}
		if prevK == k-1 {
			x--
			ops = append(ops, Op{Type: Delete, Line: a[x]})
		} else {
			y--
			ops = append(ops, Op{Type: Insert, Line: b[y]})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, Op{Type: Equal, Line: a[x]})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

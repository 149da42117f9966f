package diff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

const noNewline = "\\ No newline at end of file\n"

// Hunk is one "@@" section of a unified diff. Starts are 1-based.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Ops                []Op
}

// Hunks groups the changes of an edit script into hunks with up to context
// unchanged lines on each side. Changes closer than 2*context lines share
// a hunk.
func Hunks(ops []Op, context int) []Hunk {
	if context < 0 {
		context = 0
	}

	// at[i] is the (old, new) line offset before ops[i].
	type pos struct{ a, b int }
	at := make([]pos, len(ops)+1)
	for i, op := range ops {
		at[i+1] = at[i]
		switch op.Type {
		case Equal:
			at[i+1].a++
			at[i+1].b++
		case Delete:
			at[i+1].a++
		case Insert:
			at[i+1].b++
		}
	}

	var hunks []Hunk
	i := 0
	for i < len(ops) {
		for i < len(ops) && ops[i].Type == Equal {
			i++
		}
		if i == len(ops) {
			break
		}
		start := max(i-context, 0)
		end := i
		for {
			for end < len(ops) && ops[end].Type != Equal {
				end++
			}
			j := end
			for j < len(ops) && ops[j].Type == Equal {
				j++
			}
			if j < len(ops) && j-end <= 2*context {
				end = j
				continue
			}
			break
		}
		stop := min(end+context, len(ops))
		hunks = append(hunks, Hunk{
			OldStart: at[start].a + 1,
			OldLines: at[stop].a - at[start].a,
			NewStart: at[start].b + 1,
			NewLines: at[stop].b - at[start].b,
			Ops:      ops[start:stop],
		})
		i = stop
	}
	return hunks
}

// Unified renders a unified diff from a (labelled oldName) to b (labelled
// newName). Identical inputs render as the empty string.
//
//	--- oldName
//	+++ newName
//	@@ -1,3 +1,3 @@
//	 context
//	-old line
//	+new line
func Unified(oldName, newName string, a, b []byte, context int) string {
	hunks := Hunks(Lines(a, b), context)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", oldName)
	fmt.Fprintf(&sb, "+++ %s\n", newName)
	for _, h := range hunks {
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", hunkRange(h.OldStart, h.OldLines), hunkRange(h.NewStart, h.NewLines))
		for _, op := range h.Ops {
			switch op.Type {
			case Equal:
				sb.WriteByte(' ')
			case Delete:
				sb.WriteByte('-')
			case Insert:
				sb.WriteByte('+')
			}
			sb.WriteString(op.Line)
			if !strings.HasSuffix(op.Line, "\n") {
				sb.WriteByte('\n')
				sb.WriteString(noNewline)
			}
		}
	}
	return sb.String()
}

// hunkRange formats a range the way diff -u does: a single line omits the
// count, and an empty range names the line before it.
func hunkRange(start, n int) string {
	switch n {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprintf("%d", start)
	default:
		return fmt.Sprintf("%d,%d", start, n)
	}
}

package patch

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

type hunkLineKind byte

const (
	kindContext hunkLineKind = ' '
	kindRemove  hunkLineKind = '-'
	kindAdd     hunkLineKind = '+'
)

type hunkLine struct {
	kind hunkLineKind
	text string
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []hunkLine
}

type parsedDiff struct {
	creation bool // --- /dev/null  => new file
	deletion bool // +++ /dev/null  => file removed
	hunks    []hunk
}

// parseUnifiedDiff parses a single-file unified diff: an optional
// "--- a/path" / "+++ b/path" header pair (either side may be
// "/dev/null" to signal creation or deletion) followed by one or more
// "@@ ... @@" hunks.
func parseUnifiedDiff(diffText string) (*parsedDiff, error) {
	lines := strings.Split(strings.TrimRight(diffText, "\n"), "\n")

	i := 0
	d := &parsedDiff{}

	if i < len(lines) && strings.HasPrefix(lines[i], "--- ") {
		old := strings.TrimPrefix(lines[i], "--- ")
		d.creation = old == "/dev/null"
		i++
		if i >= len(lines) || !strings.HasPrefix(lines[i], "+++ ") {
			return nil, ErrMalformedDiff
		}
		newHeader := strings.TrimPrefix(lines[i], "+++ ")
		d.deletion = newHeader == "/dev/null"
		i++
	}

	for i < len(lines) {
		m := hunkHeaderRE.FindStringSubmatch(lines[i])
		if m == nil {
			return nil, ErrMalformedDiff
		}
		h := hunk{}
		h.oldStart, _ = strconv.Atoi(m[1])
		h.oldCount = countOrOne(m[2])
		h.newStart, _ = strconv.Atoi(m[3])
		h.newCount = countOrOne(m[4])
		i++

		var oldSeen, newSeen int
		for i < len(lines) && !strings.HasPrefix(lines[i], "@@") {
			line := lines[i]
			if line == "" {
				// A content line can never be genuinely empty (a blank
				// context line still carries its leading space), so an
				// empty line is not a hunk line — skip it and keep
				// reading this hunk's body.
				i++
				continue
			}
			switch line[0] {
			case ' ':
				h.lines = append(h.lines, hunkLine{kindContext, line[1:]})
				oldSeen++
				newSeen++
			case '-':
				h.lines = append(h.lines, hunkLine{kindRemove, line[1:]})
				oldSeen++
			case '+':
				h.lines = append(h.lines, hunkLine{kindAdd, line[1:]})
				newSeen++
			default:
				return nil, ErrMalformedDiff
			}
			i++
		}

		if oldSeen != h.oldCount || newSeen != h.newCount {
			return nil, ErrMalformedDiff
		}

		d.hunks = append(d.hunks, h)
	}

	if len(d.hunks) == 0 {
		return nil, ErrMalformedDiff
	}
	return d, nil
}

func countOrOne(s string) int {
	if s == "" {
		return 1
	}
	n, _ := strconv.Atoi(s)
	return n
}

// applyHunks applies hunks, in order, against original (lines without
// trailing newlines), matching context/removed lines exactly. Any
// mismatch aborts with ErrContextMismatch and leaves original untouched
// — the caller must not commit a partial result.
func applyHunks(original []string, hunks []hunk) ([]string, error) {
	var result []string
	srcIdx := 0

	for _, h := range hunks {
		target := h.oldStart - 1
		if target < 0 {
			target = 0
		}
		if target > len(original) {
			return nil, ErrContextMismatch
		}

		result = append(result, original[srcIdx:target]...)
		srcIdx = target

		for _, hl := range h.lines {
			switch hl.kind {
			case kindContext, kindRemove:
				if srcIdx >= len(original) || original[srcIdx] != hl.text {
					return nil, ErrContextMismatch
				}
				if hl.kind == kindContext {
					result = append(result, original[srcIdx])
				}
				srcIdx++
			case kindAdd:
				result = append(result, hl.text)
			}
		}
	}

	result = append(result, original[srcIdx:]...)
	return result, nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

package report

import (
	"strings"
)

// maxHeadingDepth caps how deep advisory heading markers may nest in the
// generated document.
const maxHeadingDepth = 4

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
)

// block is one flowed element of the advisory section.
type block struct {
	kind  blockKind
	level int // heading level, 1-based
	text  string
}

// reflow turns AI advisory text into a heading/paragraph stream. A line
// starting with N '#' markers becomes a heading one level deeper than N,
// capped at maxHeadingDepth; blank lines are dropped; everything else is a
// paragraph.
func reflow(advisory string) []block {
	var blocks []block
	for _, line := range strings.Split(advisory, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			markers := 0
			for markers < len(line) && line[markers] == '#' {
				markers++
			}
			text := strings.TrimSpace(line[markers:])
			if text != "" {
				level := markers + 1
				if level > maxHeadingDepth {
					level = maxHeadingDepth
				}
				blocks = append(blocks, block{kind: blockHeading, level: level, text: text})
				continue
			}
			// A bare marker line carries no heading text; treat as noise.
			continue
		}

		blocks = append(blocks, block{kind: blockParagraph, text: line})
	}
	return blocks
}

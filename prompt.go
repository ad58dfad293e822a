package refgen

import (
	"fmt"
	"strings"
)

// stylePrefix is prepended to the instruction when a style reference is supplied.
const stylePrefix = "Create a thumbnail inspired by the style reference image. "

// ComposeInstruction merges the base instruction with the role of each
// reference. References are numbered from 1 in the order given.
//
// When no reference has a role the base instruction is returned unchanged; when
// at least one does, the result is the role lines, a blank line, then
// "Generate: <base>".
func ComposeInstruction(base string, refs []ReferenceImage) string {
	var lines []string
	for i, ref := range refs {
		role, ok := ref.Role()
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("Image %d (%s): %s", i+1, ref.Filename(), role))
	}
	if len(lines) == 0 {
		return base
	}
	return strings.Join(lines, "\n") + "\n\nGenerate: " + base
}

// StyleInstruction points the model at the style reference image.
func StyleInstruction(base string) string {
	return stylePrefix + base
}

package shell

import (
	"context"
	"fmt"
	"strings"
)

// generateKeyword entered as content asks for generated content.
const generateKeyword = "/generate"

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Shell) prompt(label string) (line string, ok bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptContent reads report content. An empty answer keeps current;
// "/generate" drafts content from an idea, falling back to title when the
// idea is left empty.
func (s *Shell) promptContent(ctx context.Context, title, current string) (string, bool) {
	label := "Enter content (" + generateKeyword + " to draft it): "
	if current != "" {
		label = "Enter new content (empty keeps current, " + generateKeyword + " to draft it): "
	}
	content, ok := s.prompt(label)
	if !ok {
		return "", false
	}
	switch content {
	case "":
		return current, true
	case generateKeyword:
	default:
		return content, true
	}

	idea, ok := s.prompt("Enter idea (empty uses the title): ")
	if !ok {
		return "", false
	}
	text, ok := s.generate(ctx, idea, title)
	if !ok {
		return "", false
	}
	fmt.Fprintln(s.out, text)
	return text, true
}

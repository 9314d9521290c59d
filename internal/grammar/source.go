package grammar

import (
	"fmt"
	"strings"
)

// ParseSource builds a Grammar from its textual representation: a sequence
// of rule lines of the form
//
//	HeadName -> tok tok tok
//
// One line per alternative. Repeating a head across multiple lines appends
// another alternative to its rule, in the order the lines appear, exactly
// matching the "head name to ordered list of alternative bodies" model the
// rest of this package works with. "#" begins a line comment; blank lines
// are ignored. An alternative with no body tokens after "->" is invalid: use
// the epsilon marker "$" as the sole body token instead.
//
// ParseSource does not itself classify tokens or resolve non-terminal
// references; it defers to Validate, exactly as a caller building a Grammar
// by hand with AddRule would. Call Validate (or any method that triggers
// compilation) to surface ErrUnknownSymbol and ErrLeftRecursion.
func ParseSource(text string) (*Grammar, error) {
	g := New()

	lines := strings.Split(text, "\n")
	for i, rawLine := range lines {
		lineNum := i + 1

		line := rawLine
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		head, body, ok := strings.Cut(line, "->")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '->' separating head from body: %q", lineNum, rawLine)
		}

		head = strings.TrimSpace(head)
		if head == "" {
			return nil, fmt.Errorf("line %d: empty head name", lineNum)
		}

		toks := strings.Fields(body)
		if len(toks) == 0 {
			return nil, fmt.Errorf("line %d: %q has no body tokens; use %q for an empty production", lineNum, head, "$")
		}

		g.AddRule(head, Production(toks))
	}

	return g, nil
}

package pddl

import "fmt"

// SyntaxError reports malformed or unsupported PDDL. When the text is well
// formed but the planner rejected a declaration, Err holds the planner's
// *planner.ValidationError.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pddl: line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("pddl: line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxErr(n *node, format string, args ...any) error {
	return &SyntaxError{Line: n.line, Msg: fmt.Sprintf(format, args...)}
}

func rejected(n *node, what string, err error) error {
	return &SyntaxError{Line: n.line, Msg: what, Err: err}
}

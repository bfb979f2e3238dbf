package pddl

import (
	"bufio"
	"io"
	"strings"
)

// node is a parsed s-expression: either an atom or a list.
type node struct {
	atom string
	list []*node
	line int
}

func (n *node) isList() bool { return n.list != nil }

// head returns the lower-cased first atom of a list, or "".
func (n *node) head() string {
	if !n.isList() || len(n.list) == 0 || n.list[0].isList() {
		return ""
	}
	return strings.ToLower(n.list[0].atom)
}

func (n *node) String() string {
	if !n.isList() {
		return n.atom
	}
	parts := make([]string, len(n.list))
	for i, c := range n.list {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

type token struct {
	text string
	line int
}

// tokenize splits PDDL text into parentheses and atoms. Comments run from
// ';' to the end of the line.
func tokenize(r io.Reader) ([]token, error) {
	var toks []token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, ';'); i >= 0 {
			text = text[:i]
		}
		text = strings.NewReplacer("(", " ( ", ")", " ) ").Replace(text)
		for _, f := range strings.Fields(text) {
			toks = append(toks, token{text: f, line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return toks, nil
}

// read parses exactly one top-level s-expression from r.
func read(r io.Reader) (*node, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &SyntaxError{Line: 1, Msg: "empty input"}
	}
	pos := 0
	var parse func() (*node, error)
	parse = func() (*node, error) {
		t := toks[pos]
		pos++
		switch t.text {
		case ")":
			return nil, &SyntaxError{Line: t.line, Msg: "unexpected ')'"}
		case "(":
			n := &node{line: t.line, list: []*node{}}
			for {
				if pos >= len(toks) {
					return nil, &SyntaxError{Line: t.line, Msg: "unbalanced parentheses: '(' is never closed"}
				}
				if toks[pos].text == ")" {
					pos++
					return n, nil
				}
				c, err := parse()
				if err != nil {
					return nil, err
				}
				n.list = append(n.list, c)
			}
		default:
			return &node{atom: t.text, line: t.line}, nil
		}
	}
	root, err := parse()
	if err != nil {
		return nil, err
	}
	if pos < len(toks) {
		return nil, &SyntaxError{Line: toks[pos].line, Msg: "trailing input after definition"}
	}
	return root, nil
}

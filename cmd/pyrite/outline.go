package main

import (
	"strings"

	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

// buildOutline recovers a statement outline from indentation alone: module,
// class and function definitions with their argument lists, compound
// statements with branch arms, and one node per simple statement. That is
// enough structure for scoping, statement counting and the structural
// checkers without a full grammar.
func buildOutline(file *source.File) (*pytree.Node, error) {
	total := file.LineCount()
	root := pytree.New(pytree.KindModule, source.Position{
		Line: 1, Col: 1, EndLine: max(total, 1), EndCol: 1,
	})

	type openBlock struct {
		node   *pytree.Node
		indent int
	}
	stack := []openBlock{{node: root, indent: -1}}

	for line := 1; line <= total; line++ {
		text := file.Line(line)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := indentWidth(text)
		startLine := line

		// Fold continuation lines while brackets stay open so a
		// multi-line signature reads as one logical statement.
		logical := trimmed
		for bracketDepth(logical) > 0 && line < total {
			line++
			logical = logical + " " + strings.TrimSpace(file.Line(line))
		}

		for len(stack) > 1 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node

		pos := source.Position{
			Line: startLine, Col: indent + 1,
			EndLine: line, EndCol: len(strings.TrimRight(file.Line(line), "\r\n")) + 1,
		}
		node, opens := outlineStatement(logical, pos)
		parent.Add(node)

		if opens {
			body := node
			switch node.Kind {
			case pytree.KindIf, pytree.KindFor, pytree.KindWhile,
				pytree.KindWith, pytree.KindTry:
				// The body of a compound statement lives in a branch
				// arm so that it opens its own suppression scope.
				body = pytree.New(pytree.KindBranch, pos)
				node.Add(body)
			}
			stack = append(stack, openBlock{node: body, indent: indent})
		}
	}

	widenSpans(root)
	return root, nil
}

// outlineStatement classifies one logical line and reports whether it opens
// an indented block.
func outlineStatement(logical string, pos source.Position) (*pytree.Node, bool) {
	head := leadingWord(logical)
	switch head {
	case "def", "async":
		if head == "async" {
			rest := strings.TrimSpace(strings.TrimPrefix(logical, "async"))
			if leadingWord(rest) != "def" {
				break
			}
			logical = rest
		}
		name, args := splitSignature(strings.TrimPrefix(logical, "def"))
		fn := pytree.Named(pytree.KindFunctionDef, name, pos)
		fn.Add(argumentsNode(args, pos))
		return fn, true
	case "class":
		name, _ := splitSignature(strings.TrimPrefix(logical, "class"))
		return pytree.Named(pytree.KindClassDef, name, pos), true
	case "if":
		return pytree.New(pytree.KindIf, pos), blockHeader(logical)
	case "for":
		return pytree.New(pytree.KindFor, pos), blockHeader(logical)
	case "while":
		return pytree.New(pytree.KindWhile, pos), blockHeader(logical)
	case "with":
		return pytree.New(pytree.KindWith, pos), blockHeader(logical)
	case "try":
		return pytree.New(pytree.KindTry, pos), blockHeader(logical)
	case "elif", "else", "except", "finally":
		return pytree.New(pytree.KindBranch, pos), blockHeader(logical)
	case "import", "from":
		return pytree.New(pytree.KindImport, pos), false
	case "return":
		return pytree.New(pytree.KindReturn, pos), false
	case "raise":
		return pytree.New(pytree.KindRaise, pos), false
	case "pass":
		return pytree.New(pytree.KindPass, pos), false
	case "break":
		return pytree.New(pytree.KindBreak, pos), false
	case "continue":
		return pytree.New(pytree.KindContinue, pos), false
	case "global", "nonlocal":
		return pytree.New(pytree.KindGlobal, pos), false
	case "del":
		return pytree.New(pytree.KindDelete, pos), false
	case "assert":
		return pytree.New(pytree.KindAssert, pos), false
	}
	if op := assignmentOp(logical); op != "" {
		kind := pytree.KindAssign
		if op != "=" {
			kind = pytree.KindAugAssign
		}
		return pytree.New(kind, pos), false
	}
	return pytree.New(pytree.KindExprStmt, pos), false
}

// argumentsNode parses a comma-separated parameter list into an arguments
// node with one arg child per named parameter. Bare "*", "/" separators and
// star prefixes are stripped.
func argumentsNode(args string, pos source.Position) *pytree.Node {
	node := pytree.New(pytree.KindArguments, pos)
	for _, part := range splitTopLevel(args, ',') {
		name := strings.TrimSpace(part)
		if i := strings.IndexAny(name, ":="); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		name = strings.TrimLeft(name, "*")
		if name == "" || name == "/" {
			continue
		}
		node.Add(pytree.Named(pytree.KindArg, name, pos))
	}
	return node
}

// splitSignature extracts the definition name and the raw text between the
// outermost parentheses, if any.
func splitSignature(rest string) (name, args string) {
	rest = strings.TrimSpace(rest)
	end := strings.IndexAny(rest, "(:")
	if end < 0 {
		return strings.TrimSpace(rest), ""
	}
	name = strings.TrimSpace(rest[:end])
	if rest[end] != '(' {
		return name, ""
	}
	depth := 0
	for i := end; i < len(rest); i++ {
		switch rest[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return name, rest[end+1 : i]
			}
		}
	}
	return name, rest[end+1:]
}

// splitTopLevel splits on sep outside any bracket nesting.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func leadingWord(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			continue
		}
		return s[:i]
	}
	return s
}

// blockHeader reports whether the logical line ends with the block colon.
func blockHeader(logical string) bool {
	trimmed := strings.TrimRight(logical, " \t")
	if i := strings.Index(trimmed, "#"); i >= 0 {
		trimmed = strings.TrimRight(trimmed[:i], " \t")
	}
	return strings.HasSuffix(trimmed, ":")
}

// assignmentOp finds a top-level assignment operator and returns its text,
// "=" or an augmented form, or "" when the line is not an assignment.
func assignmentOp(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			// Skip comparisons and annotations without values.
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 {
				switch s[i-1] {
				case '!', '<', '>':
					continue
				case '+', '-', '*', '/', '%', '&', '|', '^', '@':
					return s[i-1:i] + "="
				}
			}
			return "="
		}
	}
	return ""
}

func indentWidth(text string) int {
	width := 0
	for _, r := range text {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		default:
			return width
		}
	}
	return width
}

func bracketDepth(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '#':
			return depth
		}
	}
	return depth
}

// widenSpans grows every container's span to cover its children so that
// line-based scope queries see whole block bodies.
func widenSpans(n *pytree.Node) {
	for _, c := range n.Children {
		widenSpans(c)
		if c.Pos.EndLine > n.Pos.EndLine {
			n.Pos.EndLine = c.Pos.EndLine
			n.Pos.EndCol = c.Pos.EndCol
		}
	}
}

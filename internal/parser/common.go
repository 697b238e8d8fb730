package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// signatureFor returns the first source line of a node, trimmed. Used for
// type signatures and member signatures alike.
func signatureFor(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

func childByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func childTextByKind(node *sitter.Node, kind string, source []byte) string {
	return nodeText(childByKind(node, kind), source)
}

// cleanTypeAnnotation strips the ": " prefix and ";" suffix TypeScript
// leaves on type_annotation nodes.
func cleanTypeAnnotation(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, ":")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	return strings.TrimSpace(text)
}

func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// RubyExtractor maps classes to class definitions and modules to traits.
// Fields are inferred from attr_* declarations and from instance variables
// assigned inside initialize; Ruby has no static field types, so every
// inferred field is typed "Object".
type RubyExtractor struct{}

func (e *RubyExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *RubyExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	switch node.Kind() {
	case "class":
		e.addClass(node, source, relPath, defs)
	case "module":
		e.addModule(node, source, relPath, defs)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *RubyExtractor) addClass(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	def := model.TypeDefinition{
		Name:      name,
		Kind:      model.KindClass,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	seen := make(map[string]bool)
	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "call":
				for _, attr := range e.attrNames(child, source) {
					if !seen[attr] {
						seen[attr] = true
						def.Fields = append(def.Fields, model.Field{Name: attr, Type: "Object"})
					}
				}
			case "method":
				if nodeText(child.ChildByFieldName("name"), source) == "initialize" {
					for _, ivar := range e.instanceVars(child, source) {
						if !seen[ivar] {
							seen[ivar] = true
							def.Fields = append(def.Fields, model.Field{Name: ivar, Type: "Object"})
						}
					}
				}
			}
		}
	}

	*defs = append(*defs, def)
}

func (e *RubyExtractor) addModule(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	def := model.TypeDefinition{
		Name:      name,
		Kind:      model.KindTrait,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			if child.Kind() != "method" {
				continue
			}
			methodName := nodeText(child.ChildByFieldName("name"), source)
			if methodName != "" {
				def.Members = append(def.Members, model.Member{Name: methodName, Type: signatureFor(child, source)})
			}
		}
	}

	*defs = append(*defs, def)
}

// attrNames returns the symbol arguments of attr_accessor, attr_reader
// and attr_writer calls, without the leading colon.
func (e *RubyExtractor) attrNames(call *sitter.Node, source []byte) []string {
	method := nodeText(call.ChildByFieldName("method"), source)
	switch method {
	case "attr_accessor", "attr_reader", "attr_writer":
	default:
		return nil
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if arg.Kind() != "simple_symbol" {
			continue
		}
		name := strings.TrimPrefix(nodeText(arg, source), ":")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// instanceVars collects @name targets of assignments anywhere inside node.
func (e *RubyExtractor) instanceVars(node *sitter.Node, source []byte) []string {
	var names []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Kind() == "assignment" {
			left := n.ChildByFieldName("left")
			if left != nil && left.Kind() == "instance_variable" {
				name := strings.TrimPrefix(nodeText(left, source), "@")
				if name != "" {
					names = append(names, name)
				}
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			visit(n.Child(i))
		}
	}
	visit(node)
	return names
}

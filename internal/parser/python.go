package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// PythonExtractor handles class definitions plus the functional
// TypedDict/NamedTuple call forms. Enum and Protocol subclasses are
// sniffed from the superclass list text; full base-class resolution is
// out of reach without imports.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	switch node.Kind() {
	case "class_definition":
		e.addClass(node, source, relPath, defs)
	case "assignment":
		e.addCallForm(node, source, relPath, defs)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *PythonExtractor) addClass(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	kind := model.KindClass
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		text := nodeText(supers, source)
		if strings.Contains(text, "Enum") {
			kind = model.KindEnum
		} else if strings.Contains(text, "Protocol") {
			kind = model.KindProtocol
		}
	}

	def := model.TypeDefinition{
		Name:      name,
		Kind:      kind,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_definition":
				e.addMethod(child, source, &def)
			case "decorated_definition":
				inner := child.ChildByFieldName("definition")
				if inner == nil {
					inner = childByKind(child, "function_definition")
				}
				if inner != nil {
					e.addMethod(inner, source, &def)
				}
			case "expression_statement":
				e.addClassStatement(child, source, kind, &def)
			}
		}
	}

	*defs = append(*defs, def)
}

func (e *PythonExtractor) addMethod(fn *sitter.Node, source []byte, def *model.TypeDefinition) {
	name := nodeText(fn.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	if name == "__init__" {
		e.addConstructorFields(fn, source, def)
	}

	def.Members = append(def.Members, model.Member{
		Name: name,
		Type: signatureFor(fn, source),
	})
}

// addConstructorFields infers fields from `self.<attr> = ...` assignments
// in the constructor body. The annotation is unknowable here, so "Any".
func (e *PythonExtractor) addConstructorFields(fn *sitter.Node, source []byte, def *model.TypeDefinition) {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)
		if stmt.Kind() != "expression_statement" {
			continue
		}
		assignment := stmt.Child(0)
		if assignment == nil || assignment.Kind() != "assignment" {
			continue
		}
		left := assignment.ChildByFieldName("left")
		if left == nil || left.Kind() != "attribute" {
			continue
		}
		if nodeText(left.ChildByFieldName("object"), source) != "self" {
			continue
		}
		attr := nodeText(left.ChildByFieldName("attribute"), source)
		if attr == "" {
			continue
		}
		def.Fields = append(def.Fields, model.Field{Name: attr, Type: "Any"})
	}
}

func (e *PythonExtractor) addClassStatement(stmt *sitter.Node, source []byte, kind model.TypeKind, def *model.TypeDefinition) {
	assignment := stmt.Child(0)
	if assignment == nil || assignment.Kind() != "assignment" {
		return
	}
	left := assignment.ChildByFieldName("left")
	if left == nil {
		return
	}

	if kind == model.KindEnum {
		name := nodeText(left, source)
		if name != "" {
			def.Variants = append(def.Variants, model.Variant{Name: name})
		}
		return
	}

	if left.Kind() != "identifier" {
		return
	}
	name := nodeText(left, source)
	if name == "" {
		return
	}

	annotation := nodeText(assignment.ChildByFieldName("type"), source)
	if annotation == "" {
		annotation = "Any"
	}

	// Protocol bodies describe requirements, so class attributes become
	// members rather than fields.
	if kind == model.KindProtocol {
		def.Members = append(def.Members, model.Member{Name: name, Type: annotation})
		return
	}
	def.Fields = append(def.Fields, model.Field{Name: name, Type: annotation})
}

// addCallForm recognizes `X = TypedDict("X", {...})` and
// `X = NamedTuple("X", [...])` structural-typing idioms as anonymous
// aggregate declarations.
func (e *PythonExtractor) addCallForm(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil || left.Kind() != "identifier" || right.Kind() != "call" {
		return
	}

	fn := right.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return
	}

	var kind model.TypeKind
	switch nodeText(fn, source) {
	case "TypedDict":
		kind = model.KindTypedDict
	case "NamedTuple":
		kind = model.KindNamedTuple
	default:
		return
	}

	def := model.TypeDefinition{
		Name:      nodeText(left, source),
		Kind:      kind,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	if args := right.ChildByFieldName("arguments"); args != nil {
		if kind == model.KindTypedDict {
			def.Fields = e.typedDictFields(args, source)
		} else {
			def.Fields = e.namedTupleFields(args, source)
		}
	}

	*defs = append(*defs, def)
}

func (e *PythonExtractor) typedDictFields(args *sitter.Node, source []byte) []model.Field {
	dict := childByKind(args, "dictionary")
	if dict == nil {
		return nil
	}

	var fields []model.Field
	for i := uint(0); i < dict.ChildCount(); i++ {
		pair := dict.Child(i)
		if pair.Kind() != "pair" {
			continue
		}
		name := unquote(nodeText(pair.ChildByFieldName("key"), source))
		if name == "" {
			continue
		}
		annotation := nodeText(pair.ChildByFieldName("value"), source)
		if annotation == "" {
			annotation = "Any"
		}
		fields = append(fields, model.Field{Name: name, Type: annotation})
	}
	return fields
}

func (e *PythonExtractor) namedTupleFields(args *sitter.Node, source []byte) []model.Field {
	list := childByKind(args, "list")
	if list == nil {
		return nil
	}

	var fields []model.Field
	for i := uint(0); i < list.ChildCount(); i++ {
		tuple := list.Child(i)
		if tuple.Kind() != "tuple" {
			continue
		}

		var items []*sitter.Node
		for j := uint(0); j < tuple.NamedChildCount(); j++ {
			items = append(items, tuple.NamedChild(j))
		}
		if len(items) < 2 {
			continue
		}

		name := unquote(nodeText(items[0], source))
		if name == "" {
			continue
		}
		annotation := nodeText(items[1], source)
		if annotation == "" {
			annotation = "Any"
		}
		fields = append(fields, model.Field{Name: name, Type: annotation})
	}
	return fields
}

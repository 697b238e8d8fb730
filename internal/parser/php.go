package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

type PHPExtractor struct{}

func (e *PHPExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *PHPExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	var kind model.TypeKind
	switch node.Kind() {
	case "class_declaration":
		kind = model.KindClass
	case "interface_declaration":
		kind = model.KindInterface
	case "trait_declaration":
		kind = model.KindTrait
	case "enum_declaration":
		kind = model.KindEnum
	}
	if kind != "" {
		e.addDeclaration(node, source, relPath, kind, defs)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *PHPExtractor) addDeclaration(node *sitter.Node, source []byte, relPath string, kind model.TypeKind, defs *[]model.TypeDefinition) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	def := model.TypeDefinition{
		Name:      name,
		Kind:      kind,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = childByKind(node, "declaration_list")
	}
	if body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "property_declaration":
				def.Fields = append(def.Fields, e.properties(child, source)...)
			case "method_declaration":
				if kind == model.KindInterface || kind == model.KindTrait {
					methodName := nodeText(child.ChildByFieldName("name"), source)
					if methodName != "" {
						def.Members = append(def.Members, model.Member{Name: methodName, Type: signatureFor(child, source)})
					}
				}
			case "enum_case":
				caseName := nodeText(child.ChildByFieldName("name"), source)
				if caseName != "" {
					def.Variants = append(def.Variants, model.Variant{Name: caseName})
				}
			}
		}
	}

	*defs = append(*defs, def)
}

// properties expands `public int $a, $b;` into one Field per variable.
func (e *PHPExtractor) properties(decl *sitter.Node, source []byte) []model.Field {
	typeName := nodeText(decl.ChildByFieldName("type"), source)
	if typeName == "" {
		typeName = "mixed"
	}

	var fields []model.Field
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		if child.Kind() != "property_element" {
			continue
		}
		varName := childTextByKind(child, "variable_name", source)
		if varName == "" {
			varName = nodeText(child, source)
		}
		varName = strings.TrimPrefix(strings.TrimSuffix(varName, ";"), "$")
		if varName == "" {
			continue
		}
		fields = append(fields, model.Field{Name: varName, Type: typeName})
	}
	return fields
}

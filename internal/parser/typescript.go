package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// TypeScriptExtractor handles TypeScript, TSX and plain JavaScript. With
// TypeScript off, only class declarations exist in the grammar's type
// surface, so interfaces/aliases/enums are never matched.
type TypeScriptExtractor struct {
	TypeScript bool
}

func (e *TypeScriptExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *TypeScriptExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	switch node.Kind() {
	case "class_declaration":
		e.addClass(node, source, relPath, defs)
	case "interface_declaration":
		if e.TypeScript {
			e.addInterface(node, source, relPath, defs)
		}
	case "type_alias_declaration":
		if e.TypeScript {
			e.addSimple(node, source, relPath, model.KindTypeAlias, defs)
		}
	case "enum_declaration":
		if e.TypeScript {
			e.addEnum(node, source, relPath, defs)
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *TypeScriptExtractor) definition(node *sitter.Node, source []byte, relPath string, kind model.TypeKind) (model.TypeDefinition, bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return model.TypeDefinition{}, false
	}
	return model.TypeDefinition{
		Name:      name,
		Kind:      kind,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}, true
}

func (e *TypeScriptExtractor) addSimple(node *sitter.Node, source []byte, relPath string, kind model.TypeKind, defs *[]model.TypeDefinition) {
	def, ok := e.definition(node, source, relPath, kind)
	if !ok {
		return
	}
	*defs = append(*defs, def)
}

func (e *TypeScriptExtractor) addClass(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	def, ok := e.definition(node, source, relPath, model.KindClass)
	if !ok {
		return
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "public_field_definition", "field_definition", "property_signature":
				name := nodeText(child.ChildByFieldName("name"), source)
				if name == "" {
					continue
				}
				def.Fields = append(def.Fields, model.Field{
					Name: name,
					Type: cleanTypeAnnotation(nodeText(child.ChildByFieldName("type"), source)),
				})
			}
		}
	}

	*defs = append(*defs, def)
}

func (e *TypeScriptExtractor) addInterface(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	def, ok := e.definition(node, source, relPath, model.KindInterface)
	if !ok {
		return
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			name := nodeText(child.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			switch child.Kind() {
			case "property_signature":
				def.Fields = append(def.Fields, model.Field{
					Name: name,
					Type: cleanTypeAnnotation(nodeText(child.ChildByFieldName("type"), source)),
				})
			case "method_signature":
				def.Members = append(def.Members, model.Member{Name: name, Type: signatureFor(child, source)})
			}
		}
	}

	*defs = append(*defs, def)
}

func (e *TypeScriptExtractor) addEnum(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	def, ok := e.definition(node, source, relPath, model.KindEnum)
	if !ok {
		return
	}

	// Enum bodies mix bare names with `name = value` assignments; both
	// contribute only the name.
	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "property_identifier":
				def.Variants = append(def.Variants, model.Variant{Name: nodeText(child, source)})
			case "enum_assignment":
				name := nodeText(child.ChildByFieldName("name"), source)
				if name != "" {
					def.Variants = append(def.Variants, model.Variant{Name: name})
				}
			}
		}
	}

	*defs = append(*defs, def)
}

package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// JavaExtractor handles class, interface, enum and record declarations.
type JavaExtractor struct{}

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *JavaExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	var kind model.TypeKind
	switch node.Kind() {
	case "class_declaration":
		kind = model.KindClass
	case "interface_declaration":
		kind = model.KindInterface
	case "enum_declaration":
		kind = model.KindEnum
	case "record_declaration":
		kind = model.KindRecord
	}

	if kind != "" {
		e.addDeclaration(node, source, relPath, kind, defs)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *JavaExtractor) addDeclaration(node *sitter.Node, source []byte, relPath string, kind model.TypeKind, defs *[]model.TypeDefinition) {
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

	// Record components live in the parameter list, not the body.
	if kind == model.KindRecord {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for i := uint(0); i < params.ChildCount(); i++ {
				param := params.Child(i)
				if param.Kind() != "formal_parameter" {
					continue
				}
				pname := nodeText(param.ChildByFieldName("name"), source)
				ptype := nodeText(param.ChildByFieldName("type"), source)
				if pname == "" || ptype == "" {
					continue
				}
				def.Fields = append(def.Fields, model.Field{Name: pname, Type: ptype})
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "field_declaration":
				e.addFields(child, source, &def)
			case "method_declaration":
				if kind != model.KindInterface {
					continue
				}
				mname := nodeText(child.ChildByFieldName("name"), source)
				if mname == "" {
					continue
				}
				def.Members = append(def.Members, model.Member{Name: mname, Type: signatureFor(child, source)})
			case "enum_constant":
				cname := nodeText(child.ChildByFieldName("name"), source)
				if cname == "" {
					continue
				}
				def.Variants = append(def.Variants, model.Variant{Name: cname})
			}
		}
	}

	*defs = append(*defs, def)
}

// addFields expands `int a, b;` to one Field per declarator.
func (e *JavaExtractor) addFields(decl *sitter.Node, source []byte, def *model.TypeDefinition) {
	typeName := nodeText(decl.ChildByFieldName("type"), source)
	if typeName == "" {
		return
	}
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		def.Fields = append(def.Fields, model.Field{Name: name, Type: typeName})
	}
}

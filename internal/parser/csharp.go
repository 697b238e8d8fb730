package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// CSharpExtractor handles class, interface, struct, enum and record
// declarations, plus `using Name = ...` alias directives.
type CSharpExtractor struct{}

func (e *CSharpExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *CSharpExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	var kind model.TypeKind
	switch node.Kind() {
	case "class_declaration":
		kind = model.KindClass
	case "interface_declaration":
		kind = model.KindInterface
	case "struct_declaration":
		kind = model.KindStruct
	case "enum_declaration":
		kind = model.KindEnum
	case "record_declaration":
		kind = model.KindRecord
	case "using_directive":
		e.addAlias(node, source, relPath, defs)
	}

	if kind != "" {
		e.addDeclaration(node, source, relPath, kind, defs)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

// addAlias records `using Name = Some.Type;` directives as type aliases.
// Plain using directives have no name field and are skipped.
func (e *CSharpExtractor) addAlias(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}

	*defs = append(*defs, model.TypeDefinition{
		Name:      name,
		Kind:      model.KindTypeAlias,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	})
}

func (e *CSharpExtractor) addDeclaration(node *sitter.Node, source []byte, relPath string, kind model.TypeKind, defs *[]model.TypeDefinition) {
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

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "field_declaration":
				e.addFields(child, source, &def)
			case "property_declaration":
				pname := nodeText(child.ChildByFieldName("name"), source)
				if pname == "" {
					continue
				}
				def.Fields = append(def.Fields, model.Field{
					Name: pname,
					Type: nodeText(child.ChildByFieldName("type"), source),
				})
			case "method_declaration":
				if kind != model.KindInterface {
					continue
				}
				mname := nodeText(child.ChildByFieldName("name"), source)
				if mname == "" {
					continue
				}
				def.Members = append(def.Members, model.Member{Name: mname, Type: signatureFor(child, source)})
			case "enum_member_declaration":
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

// addFields expands `int a, b;` to one Field per declarator. Depending
// on the grammar version the type and declarators hang off the
// field_declaration itself or off a nested variable_declaration.
func (e *CSharpExtractor) addFields(decl *sitter.Node, source []byte, def *model.TypeDefinition) {
	if decl.ChildByFieldName("type") == nil {
		if inner := childByKind(decl, "variable_declaration"); inner != nil {
			decl = inner
		}
	}
	typeName := nodeText(decl.ChildByFieldName("type"), source)
	if typeName == "" {
		return
	}

	declarators := decl.ChildByFieldName("declarators")
	if declarators == nil {
		declarators = decl
	}
	for i := uint(0); i < declarators.ChildCount(); i++ {
		child := declarators.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			name = childTextByKind(child, "identifier", source)
		}
		if name == "" {
			continue
		}
		def.Fields = append(def.Fields, model.Field{Name: name, Type: typeName})
	}
}

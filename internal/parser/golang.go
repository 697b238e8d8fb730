package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// GoExtractor handles struct and interface type specs. Other type specs
// (named basic types, generics instantiations) carry no member structure
// this model represents and are skipped.
type GoExtractor struct{}

func (e *GoExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	var defs []model.TypeDefinition
	e.walk(root, source, relPath, &defs)
	return defs, nil
}

func (e *GoExtractor) walk(node *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	if node.Kind() == "type_spec" {
		e.addTypeSpec(node, source, relPath, defs)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, defs)
	}
}

func (e *GoExtractor) addTypeSpec(spec *sitter.Node, source []byte, relPath string, defs *[]model.TypeDefinition) {
	name := nodeText(spec.ChildByFieldName("name"), source)
	typeNode := spec.ChildByFieldName("type")
	if name == "" || typeNode == nil {
		return
	}

	def := model.TypeDefinition{
		Name:      name,
		File:      relPath,
		Line:      nodeLine(spec),
		Signature: signatureFor(spec, source),
	}

	switch typeNode.Kind() {
	case "struct_type":
		def.Kind = model.KindStruct
		def.Fields = e.structFields(typeNode, source)
	case "interface_type":
		def.Kind = model.KindInterface
		def.Members = e.interfaceMethods(typeNode, source)
	default:
		return
	}

	*defs = append(*defs, def)
}

// structFields expands `A, B string` into one Field per identifier.
func (e *GoExtractor) structFields(structType *sitter.Node, source []byte) []model.Field {
	fieldList := structType.ChildByFieldName("fields")
	if fieldList == nil {
		fieldList = childByKind(structType, "field_declaration_list")
	}
	if fieldList == nil {
		return nil
	}

	var fields []model.Field
	for i := uint(0); i < fieldList.ChildCount(); i++ {
		decl := fieldList.Child(i)
		if decl.Kind() != "field_declaration" {
			continue
		}
		typeName := nodeText(decl.ChildByFieldName("type"), source)
		if typeName == "" {
			continue
		}
		for j := uint(0); j < decl.ChildCount(); j++ {
			child := decl.Child(j)
			if child.Kind() != "field_identifier" {
				continue
			}
			name := nodeText(child, source)
			if name == "" {
				continue
			}
			fields = append(fields, model.Field{Name: name, Type: typeName})
		}
	}
	return fields
}

// interfaceMethods flattens nested method groups with an explicit stack.
func (e *GoExtractor) interfaceMethods(ifaceType *sitter.Node, source []byte) []model.Member {
	var members []model.Member
	stack := []*sitter.Node{ifaceType}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "method_elem" {
				name := nodeText(child.ChildByFieldName("name"), source)
				if name != "" {
					members = append(members, model.Member{Name: name, Type: signatureFor(child, source)})
				}
			}
			stack = append(stack, child)
		}
	}
	return members
}

package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
)

// RustExtractor maps struct/enum/trait/type-alias items onto the unified
// model. Member association is two-phase: declarations are collected into
// a name-keyed index first, then impl blocks append their functions onto
// the matching entry. Impl blocks naming an unknown type are dropped.
type RustExtractor struct{}

func (e *RustExtractor) Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error) {
	index := make(map[string]*model.TypeDefinition)
	var order []string
	var impls []*sitter.Node

	e.walk(root, source, relPath, index, &order, &impls)

	for _, impl := range impls {
		e.attachImplMembers(impl, source, index)
	}

	defs := make([]model.TypeDefinition, 0, len(order))
	for _, name := range order {
		defs = append(defs, *index[name])
	}
	return defs, nil
}

func (e *RustExtractor) walk(node *sitter.Node, source []byte, relPath string, index map[string]*model.TypeDefinition, order *[]string, impls *[]*sitter.Node) {
	switch node.Kind() {
	case "struct_item":
		e.addDefinition(node, source, relPath, model.KindStruct, index, order)
	case "enum_item":
		e.addDefinition(node, source, relPath, model.KindEnum, index, order)
	case "trait_item":
		e.addDefinition(node, source, relPath, model.KindTrait, index, order)
	case "type_item":
		e.addDefinition(node, source, relPath, model.KindTypeAlias, index, order)
	case "impl_item":
		*impls = append(*impls, node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, relPath, index, order, impls)
	}
}

func (e *RustExtractor) addDefinition(node *sitter.Node, source []byte, relPath string, kind model.TypeKind, index map[string]*model.TypeDefinition, order *[]string) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	if _, exists := index[name]; exists {
		return
	}

	def := &model.TypeDefinition{
		Name:      name,
		Kind:      kind,
		File:      relPath,
		Line:      nodeLine(node),
		Signature: signatureFor(node, source),
	}

	body := node.ChildByFieldName("body")
	switch kind {
	case model.KindStruct:
		def.Fields = e.structFields(body, source)
	case model.KindEnum:
		def.Variants = e.enumVariants(body, source)
	case model.KindTrait:
		def.Members = e.traitMembers(body, source)
	}

	index[name] = def
	*order = append(*order, name)
}

func (e *RustExtractor) structFields(body *sitter.Node, source []byte) []model.Field {
	if body == nil {
		return nil
	}
	var fields []model.Field
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child.Kind() != "field_declaration" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		fields = append(fields, model.Field{
			Name: name,
			Type: nodeText(child.ChildByFieldName("type"), source),
		})
	}
	return fields
}

func (e *RustExtractor) enumVariants(body *sitter.Node, source []byte) []model.Variant {
	if body == nil {
		return nil
	}
	var variants []model.Variant
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child.Kind() != "enum_variant" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		variants = append(variants, model.Variant{Name: name})
	}
	return variants
}

func (e *RustExtractor) traitMembers(body *sitter.Node, source []byte) []model.Member {
	if body == nil {
		return nil
	}
	var members []model.Member
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "associated_type", "associated_type_declaration", "associated_type_item":
			name := nodeText(child.ChildByFieldName("name"), source)
			if name == "" {
				name = childTextByKind(child, "type_identifier", source)
			}
			if name == "" {
				continue
			}
			members = append(members, model.Member{Name: name, Type: "associated_type"})
		case "function_item", "function_signature_item":
			name := nodeText(child.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			members = append(members, model.Member{Name: name, Type: signatureFor(child, source)})
		}
	}
	return members
}

func (e *RustExtractor) attachImplMembers(impl *sitter.Node, source []byte, index map[string]*model.TypeDefinition) {
	typeNode := impl.ChildByFieldName("type")
	if typeNode == nil || typeNode.Kind() != "type_identifier" {
		return
	}
	def := index[nodeText(typeNode, source)]
	if def == nil {
		return
	}
	body := impl.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child.Kind() != "function_item" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		def.Members = append(def.Members, model.Member{Name: name, Type: signatureFor(child, source)})
	}
}

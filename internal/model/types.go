// Package model defines the unified type representation every language
// extractor emits. The kind set is closed: each grammar's declaration
// forms are folded into these kinds rather than extending them.
package model

// TypeKind classifies a type definition across languages.
type TypeKind string

const (
	KindStruct     TypeKind = "struct"
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindTrait      TypeKind = "trait"
	KindTypeAlias  TypeKind = "type_alias"
	KindRecord     TypeKind = "record"
	KindProtocol   TypeKind = "protocol"
	KindTypedDict  TypeKind = "typed_dict"
	KindNamedTuple TypeKind = "named_tuple"
)

// LimitHit names the ceiling that stopped a result set from growing.
type LimitHit string

const (
	TypeLimit  LimitHit = "type_limit"
	TokenLimit LimitHit = "token_limit"
)

// Field is a named, typed data slot of a struct-like definition.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Variant is one case of an enum-like definition.
type Variant struct {
	Name string `json:"name"`
}

// Member is a method or associated item, with its one-line signature.
type Member struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypeDefinition is one extracted type. Fields, Variants and Members
// stay nil when the language/kind combination cannot have them, so the
// serialized form distinguishes "none possible" from "none present".
type TypeDefinition struct {
	Name       string    `json:"name"`
	Kind       TypeKind  `json:"kind"`
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Signature  string    `json:"signature,omitempty"`
	UsageCount int       `json:"usage_count"`
	Fields     []Field   `json:"fields,omitempty"`
	Variants   []Variant `json:"variants,omitempty"`
	Members    []Member  `json:"members,omitempty"`
}

// ExtractionResult is the outcome of one walk. TotalTypes keeps
// counting past any cap so callers can report "N of M".
type ExtractionResult struct {
	Types         []TypeDefinition `json:"types"`
	TotalTypes    int              `json:"total_types"`
	TypesIncluded int              `json:"types_included"`
	LimitHit      LimitHit         `json:"limit_hit,omitempty"`
	Truncated     bool             `json:"truncated"`
}

// Finalize derives the summary counters from the collected types.
func (r *ExtractionResult) Finalize() {
	r.TypesIncluded = len(r.Types)
	r.Truncated = r.TypesIncluded < r.TotalTypes
}

package usage

import (
	"path/filepath"
	"strings"
)

// Family selects which comment and string syntax gets stripped before
// identifiers are counted in a file.
type Family int

const (
	// Plain files are counted as-is.
	Plain Family = iota
	// CLike strips // and /* */ comments plus single and double quoted
	// strings.
	CLike
	// JavaScript is CLike plus backtick template literals.
	JavaScript
	// Rust is CLike plus raw string literals such as r#"..."#.
	Rust
	// Python strips # comments, quoted strings and triple-quoted
	// strings.
	Python
	// Hash strips # comments and quoted strings.
	Hash
)

// FamilyFor maps a file path to its stripping family by extension.
func FamilyFor(path string) Family {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rs":
		return Rust
	case ".py":
		return Python
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return JavaScript
	case ".go", ".java", ".c", ".h", ".cc", ".cpp", ".hpp", ".cs", ".php":
		return CLike
	case ".rb":
		return Hash
	default:
		return Plain
	}
}

type stripConfig struct {
	lineComment  string
	blockStart   string
	blockEnd     string
	quotes       []byte
	tripleQuotes bool
	backtick     bool
	rustRaw      bool
}

func configFor(f Family) stripConfig {
	switch f {
	case CLike:
		return stripConfig{lineComment: "//", blockStart: "/*", blockEnd: "*/", quotes: []byte{'"', '\''}}
	case JavaScript:
		return stripConfig{lineComment: "//", blockStart: "/*", blockEnd: "*/", quotes: []byte{'"', '\''}, backtick: true}
	case Rust:
		return stripConfig{lineComment: "//", blockStart: "/*", blockEnd: "*/", quotes: []byte{'"'}, rustRaw: true}
	case Python:
		return stripConfig{lineComment: "#", quotes: []byte{'"', '\''}, tripleQuotes: true}
	case Hash:
		return stripConfig{lineComment: "#", quotes: []byte{'"', '\''}}
	default:
		return stripConfig{}
	}
}

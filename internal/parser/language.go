package parser

import (
	"path/filepath"
	"strings"
)

// DetectLanguage maps a file extension to a grammar id. Returns "" for
// files no extractor handles; those are skipped for extraction but still
// visited by the usage counter.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".rs":
		return "rust"
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".go":
		return "go"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".rb":
		return "ruby"
	default:
		return ""
	}
}

package resolver

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// jsExtensions is the probe order for extensionless import specifiers.
var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// jsDependencies resolves relative import specifiers from import and
// re-export statements and require calls. Bare specifiers name packages
// and are ignored.
func (r *Resolver) jsDependencies(path string, content []byte) []string {
	lang := "javascript"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		lang = "typescript"
	case ".tsx":
		lang = "tsx"
	}

	tree := r.parseTree(lang, content)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	dir := filepath.Dir(path)
	var deps []string

	add := func(spec string) {
		if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
			return
		}
		if dep := resolveJSSpecifier(dir, spec); dep != "" {
			deps = append(deps, dep)
		}
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Kind() {
		case "import_statement", "export_statement":
			if source := node.ChildByFieldName("source"); source != nil {
				add(unquote(nodeText(source, content)))
			}
		case "call_expression":
			fn := node.ChildByFieldName("function")
			args := node.ChildByFieldName("arguments")
			if fn != nil && args != nil && nodeText(fn, content) == "require" && args.NamedChildCount() == 1 {
				arg := args.NamedChild(0)
				if arg.Kind() == "string" {
					add(unquote(nodeText(arg, content)))
				}
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())

	return deps
}

// resolveJSSpecifier probes the exact path, then the path with each
// known extension, then an index file inside it as a directory.
func resolveJSSpecifier(dir, spec string) string {
	joined := filepath.Join(dir, filepath.FromSlash(spec))

	if dep := firstExisting(joined); dep != "" {
		return dep
	}
	for _, ext := range jsExtensions {
		if dep := firstExisting(joined + ext); dep != "" {
			return dep
		}
	}
	for _, ext := range jsExtensions {
		if dep := firstExisting(filepath.Join(joined, "index"+ext)); dep != "" {
			return dep
		}
	}
	return ""
}

func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') || (first == '`' && last == '`') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

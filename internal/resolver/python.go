package resolver

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonDependencies resolves import statements against the importing
// file's directory. A dotted module a.b maps to a/b.py, then to
// a/b/__init__.py. Relative imports climb one directory per extra dot.
func (r *Resolver) pythonDependencies(path string, content []byte) []string {
	tree := r.parseTree("python", content)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	dir := filepath.Dir(path)
	var deps []string

	add := func(base, dotted string) {
		if dotted == "" {
			return
		}
		mod := filepath.Join(base, filepath.FromSlash(strings.ReplaceAll(dotted, ".", "/")))
		if dep := firstExisting(mod+".py", filepath.Join(mod, "__init__.py")); dep != "" {
			deps = append(deps, dep)
		}
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Kind() {
		case "import_statement":
			for i := uint(0); i < node.NamedChildCount(); i++ {
				child := node.NamedChild(i)
				if child.Kind() == "aliased_import" {
					child = child.ChildByFieldName("name")
				}
				if child != nil && child.Kind() == "dotted_name" {
					add(dir, nodeText(child, content))
				}
			}
		case "import_from_statement":
			module := node.ChildByFieldName("module_name")
			if module == nil {
				break
			}
			switch module.Kind() {
			case "dotted_name":
				add(dir, nodeText(module, content))
			case "relative_import":
				base, dotted := r.splitRelativeImport(module, content, dir)
				if dotted != "" {
					add(base, dotted)
				} else {
					// `from . import mod` names modules directly.
					for i := uint(0); i < node.NamedChildCount(); i++ {
						child := node.NamedChild(i)
						if child.Id() == module.Id() {
							continue
						}
						if child.Kind() == "aliased_import" {
							child = child.ChildByFieldName("name")
						}
						if child != nil && child.Kind() == "dotted_name" {
							add(base, nodeText(child, content))
						}
					}
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

// splitRelativeImport turns `..pkg.mod` into the directory the dots
// select plus the remaining dotted path.
func (r *Resolver) splitRelativeImport(module *sitter.Node, content []byte, dir string) (string, string) {
	text := nodeText(module, content)
	dots := 0
	for dots < len(text) && text[dots] == '.' {
		dots++
	}
	base := dir
	for i := 1; i < dots; i++ {
		base = filepath.Dir(base)
	}
	return base, text[dots:]
}

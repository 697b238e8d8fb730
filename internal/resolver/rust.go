package resolver

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustDependencies resolves `mod name;` declarations to sibling module
// files and `use crate::segment` imports to top-level modules under the
// crate's src directory.
func (r *Resolver) rustDependencies(path, root string, content []byte) []string {
	tree := r.parseTree("rust", content)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	dir := filepath.Dir(path)
	var deps []string

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Kind() {
		case "mod_item":
			// Inline `mod x { ... }` declares no separate file.
			if node.ChildByFieldName("body") == nil {
				name := nodeText(node.ChildByFieldName("name"), content)
				if name != "" {
					if dep := firstExisting(
						filepath.Join(dir, name+".rs"),
						filepath.Join(dir, name, "mod.rs"),
					); dep != "" {
						deps = append(deps, dep)
					}
				}
			}
		case "use_declaration":
			if seg := crateSegment(nodeText(node, content)); seg != "" {
				srcDir := nearestSrcDir(dir, root)
				if dep := firstExisting(
					filepath.Join(srcDir, seg+".rs"),
					filepath.Join(srcDir, seg, "mod.rs"),
				); dep != "" {
					deps = append(deps, dep)
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

// crateSegment extracts the first path segment after crate:: from a use
// declaration, or empty when the import is not crate-qualified.
func crateSegment(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "pub")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "use")
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, "crate::")
	if !ok {
		return ""
	}
	end := strings.IndexAny(rest, ":;{ \t\n")
	if end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// nearestSrcDir finds the closest ancestor directory named src between
// dir and root. Failing that it prefers root/src when present, then
// root itself.
func nearestSrcDir(dir, root string) string {
	for cur := dir; strings.HasPrefix(cur, root); cur = filepath.Dir(cur) {
		if filepath.Base(cur) == "src" {
			return cur
		}
		if cur == root {
			break
		}
	}
	if info, err := os.Stat(filepath.Join(root, "src")); err == nil && info.IsDir() {
		return filepath.Join(root, "src")
	}
	return root
}

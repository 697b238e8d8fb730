package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader owns the compiled tree-sitter grammars. Grammars are
// immutable once built, so a single loader is shared by every walk.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
	}

	gl.languages["rust"] = sitter.NewLanguage(tree_sitter_rust.Language())
	gl.languages["typescript"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	gl.languages["tsx"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	gl.languages["javascript"] = sitter.NewLanguage(tree_sitter_javascript.Language())
	gl.languages["python"] = sitter.NewLanguage(tree_sitter_python.Language())
	gl.languages["java"] = sitter.NewLanguage(tree_sitter_java.Language())
	gl.languages["go"] = sitter.NewLanguage(tree_sitter_go.Language())
	gl.languages["csharp"] = sitter.NewLanguage(tree_sitter_c_sharp.Language())
	gl.languages["php"] = sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	gl.languages["ruby"] = sitter.NewLanguage(tree_sitter_ruby.Language())

	return gl
}

// Grammar returns the compiled grammar for a language id.
func (gl *GrammarLoader) Grammar(lang string) (*sitter.Language, error) {
	grammar := gl.languages[lang]
	if grammar == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", lang)
	}
	return grammar, nil
}

package parser

import (
	"errors"
	"fmt"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codemap/internal/model"
	"codemap/internal/observability"
)

// Extractor maps one language's declaration forms onto the closed
// model.TypeKind set. Extractors are pure: same source, same output.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, relPath string) ([]model.TypeDefinition, error)
}

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
}

// NewDefault returns a parser with every supported extractor registered.
func NewDefault() *Parser {
	p := NewParser(NewGrammarLoader())
	p.RegisterExtractor("rust", &RustExtractor{})
	p.RegisterExtractor("typescript", &TypeScriptExtractor{TypeScript: true})
	p.RegisterExtractor("tsx", &TypeScriptExtractor{TypeScript: true})
	p.RegisterExtractor("javascript", &TypeScriptExtractor{TypeScript: false})
	p.RegisterExtractor("python", &PythonExtractor{})
	p.RegisterExtractor("java", &JavaExtractor{})
	p.RegisterExtractor("go", &GoExtractor{})
	p.RegisterExtractor("csharp", &CSharpExtractor{})
	p.RegisterExtractor("php", &PHPExtractor{})
	p.RegisterExtractor("ruby", &RubyExtractor{})
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// Supported reports whether an extractor is registered for the file.
func (p *Parser) Supported(path string) bool {
	lang := DetectLanguage(path)
	return lang != "" && p.extractors[lang] != nil
}

// ExtractTypes parses content and returns the type definitions declared
// in it, ordered by position. relPath is recorded on every definition.
// Within one file a (name) seen twice keeps only its first occurrence.
func (p *Parser) ExtractTypes(relPath string, content []byte) ([]model.TypeDefinition, error) {
	lang := DetectLanguage(relPath)
	if lang == "" {
		return nil, errors.New("unsupported language")
	}

	grammar, err := p.loader.Grammar(lang)
	if err != nil {
		return nil, err
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, fmt.Errorf("no extractor for: %s", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	start := time.Now()
	tree := parser.Parse(content, nil)
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	defs, err := extractor.Extract(tree.RootNode(), content, relPath)
	if err != nil {
		return nil, err
	}
	return dedupeByName(defs), nil
}

// dedupeByName drops later definitions that reuse a name already emitted
// for the same file. Later matches are dropped, not merged.
func dedupeByName(defs []model.TypeDefinition) []model.TypeDefinition {
	seen := make(map[string]bool, len(defs))
	out := defs[:0]
	for _, def := range defs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		out = append(out, def)
	}
	return out
}

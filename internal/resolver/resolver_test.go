package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newResolver() *Resolver {
	return New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	write(t, root, "Cargo.toml", "[package]\n")
	file := write(t, root, "src/nested/deep.rs", "")

	if got := FindProjectRoot(file); got != root {
		t.Errorf("Expected %s, got %s", root, got)
	}

	bare := t.TempDir()
	loose := write(t, bare, "loose.py", "")
	if got := FindProjectRoot(loose); got != bare {
		t.Errorf("Expected fallback to file dir %s, got %s", bare, got)
	}
}

func TestRustModDeclarations(t *testing.T) {
	root := t.TempDir()
	write(t, root, "Cargo.toml", "[package]\n")
	main := write(t, root, "src/main.rs", `
mod config;
mod storage;
mod missing;
mod inline { fn x() {} }
`)
	write(t, root, "src/config.rs", "")
	write(t, root, "src/storage/mod.rs", "")

	deps, err := newResolver().Dependencies(main)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/config.rs", "src/storage/mod.rs"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Expected %v, got %v", want, deps)
	}
}

func TestRustCrateImports(t *testing.T) {
	root := t.TempDir()
	write(t, root, "Cargo.toml", "[package]\n")
	file := write(t, root, "src/analysis/shape.rs", `
use crate::parser::extract;
use crate::common;
use std::collections::HashMap;
`)
	write(t, root, "src/parser.rs", "")
	write(t, root, "src/common/mod.rs", "")

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/common/mod.rs", "src/parser.rs"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Expected %v, got %v", want, deps)
	}
}

func TestPythonImports(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "")
	file := write(t, root, "app/views.py", `
import models
from helpers.text import slugify
from . import forms
import os
`)
	write(t, root, "app/models.py", "")
	write(t, root, "app/helpers/text.py", "")
	write(t, root, "app/forms.py", "")

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"app/forms.py", "app/helpers/text.py", "app/models.py"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Expected %v, got %v", want, deps)
	}
}

func TestPythonPackageInit(t *testing.T) {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "")
	file := write(t, root, "main.py", "import pkg\n")
	write(t, root, "pkg/__init__.py", "")

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0] != "pkg/__init__.py" {
		t.Errorf("Expected pkg/__init__.py, got %v", deps)
	}
}

func TestJavaScriptImports(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", "{}\n")
	file := write(t, root, "src/app.ts", `
import { api } from "./api";
import util from "../lib/util.js";
export { helper } from "./helpers";
import express from "express";
const legacy = require("./legacy");
`)
	write(t, root, "src/api.ts", "")
	write(t, root, "lib/util.js", "")
	write(t, root, "src/helpers/index.ts", "")
	write(t, root, "src/legacy.cjs", "")

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"lib/util.js", "src/api.ts", "src/helpers/index.ts", "src/legacy.cjs"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Expected %v, got %v", want, deps)
	}
}

func TestDependenciesNeverEscapeRoot(t *testing.T) {
	outer := t.TempDir()
	write(t, outer, "escape.js", "")
	root := filepath.Join(outer, "proj")
	write(t, root, "package.json", "{}\n")
	file := write(t, root, "index.js", `import x from "../escape.js";`)

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 0 {
		t.Errorf("Dependency outside project root leaked: %v", deps)
	}
}

func TestUnsupportedLanguageIsEmpty(t *testing.T) {
	root := t.TempDir()
	file := write(t, root, "a.java", "import b;\nclass A {}\n")

	deps, err := newResolver().Dependencies(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 0 {
		t.Errorf("Expected no deps for unsupported language, got %v", deps)
	}
}

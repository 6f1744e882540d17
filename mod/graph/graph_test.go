// Copyright 2024 The recipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goplus/recipe/internal/artifact"
	"github.com/goplus/recipe/mod/module"
)

func TestParse_WithData(t *testing.T) {
	data := `{
		"dependencies": {
			"winflexbison": {
				"ref": "winflexbison/2.5.25",
				"cpp_info": {"bindirs": ["C:\\tools\\bin"]}
			},
			"imgui": {
				"ref": "imgui/1.91.8",
				"cpp_info": {
					"libdirs": ["/pkg/imgui/lib"],
					"includedirs": ["/pkg/imgui/include", "/pkg/imgui/backends"]
				}
			}
		}
	}`
	g, err := Parse("", []byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, want := g.Names(), []string{"imgui", "winflexbison"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}

	wfb, err := g.Lookup("winflexbison")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got, want := wfb.Ref(), (module.Version{Path: "winflexbison", Version: "2.5.25"}); got != want {
		t.Errorf("Ref() = %+v, want %+v", got, want)
	}
	if got := wfb.Dirs(artifact.Binaries); !slices.Equal(got, []string{`C:\tools\bin`}) {
		t.Errorf("Dirs(binaries) = %q", got)
	}
	if got := wfb.Dirs(artifact.Libraries); len(got) != 0 {
		t.Errorf("Dirs(libraries) = %q, want none", got)
	}

	imgui, _ := g.Lookup("imgui")
	if got, want := imgui.Dirs(artifact.Headers), []string{"/pkg/imgui/include", "/pkg/imgui/backends"}; !slices.Equal(got, want) {
		t.Errorf("Dirs(headers) = %q, want %q", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"dependencies": invalid}`},
		{"bad ref", `{"dependencies": {"flex": {"ref": "flex"}}}`},
		{"ref names other package", `{"dependencies": {"flex": {"ref": "bison/3.8"}}}`},
		{"null entry", `{"dependencies": {"flex": null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("", []byte(tt.data)); err == nil {
				t.Errorf("Parse() expected error")
			}
		})
	}
}

func TestParse_NoRef(t *testing.T) {
	g, err := Parse("", []byte(`{"dependencies": {"flex": {}}}`))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := g.Lookup("flex")
	if got := p.Ref(); got != (module.Version{Path: "flex"}) {
		t.Errorf("Ref() = %+v, want {flex }", got)
	}
}

func TestParse_PackageFolder(t *testing.T) {
	pkg := t.TempDir()
	for _, d := range []string{"bin", "variants/Release/bin", "variants/Debug/bin", "variants/notes.txt"} {
		path := filepath.Join(pkg, filepath.FromSlash(d))
		if filepath.Ext(d) == ".txt" {
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	entry := map[string]any{
		"dependencies": map[string]any{
			"winflexbison": map[string]any{
				"ref":            "winflexbison/2.5.25",
				"package_folder": pkg,
				"cpp_info": map[string]any{
					"bindirs": []string{"variants/*/bin", "bin"},
					"resdirs": []string{"variants/*"},
				},
			},
		},
	}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Parse("", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, _ := g.Lookup("winflexbison")

	wantBin := []string{
		filepath.Join(pkg, "variants", "Debug", "bin"),
		filepath.Join(pkg, "variants", "Release", "bin"),
		filepath.Join(pkg, "bin"),
	}
	if got := p.Dirs(artifact.Binaries); !slices.Equal(got, wantBin) {
		t.Errorf("Dirs(binaries) = %q, want %q", got, wantBin)
	}
	// files matched by a pattern are not directories
	wantRes := []string{
		filepath.Join(pkg, "variants", "Debug"),
		filepath.Join(pkg, "variants", "Release"),
	}
	if got := p.Dirs(artifact.Resources); !slices.Equal(got, wantRes) {
		t.Errorf("Dirs(resources) = %q, want %q", got, wantRes)
	}
}

func TestParse_LiteralBrackets(t *testing.T) {
	pkg := t.TempDir()
	bin := filepath.Join(pkg, "tools[x64]", "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "flex"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(map[string]any{
		"dependencies": map[string]any{
			"winflexbison": map[string]any{
				"ref":      "winflexbison/2.5.25",
				"cpp_info": map[string]any{"bindirs": []string{bin}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := Parse("", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	p, _ := g.Lookup("winflexbison")
	got, err := artifact.Locate(p, artifact.Binaries)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if want := []string{bin}; !slices.Equal(got, want) {
		t.Errorf("Locate(binaries) = %q, want %q", got, want)
	}
}

func TestParse_WithFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		file := filepath.Join(tmpDir, "graph.json")
		content := `{"dependencies": {"flex": {"ref": "flex/2.6.4", "cpp_info": {"bindirs": ["/opt/flex/bin"]}}}}`
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		g, err := Parse(file, nil)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(g.Dependencies) != 1 {
			t.Errorf("Parse() Dependencies len = %v, want 1", len(g.Dependencies))
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := Parse(filepath.Join(tmpDir, "nonexistent.json"), nil); err == nil {
			t.Error("Parse() expected error for nonexistent file")
		}
	})
}

func TestLookupMissing(t *testing.T) {
	g := &Graph{}
	if _, err := g.Lookup("winflexbison"); !errors.Is(err, ErrNoDependency) {
		t.Errorf("Lookup error = %v, want ErrNoDependency", err)
	}
}

func TestNewPackage(t *testing.T) {
	dirs := map[artifact.Category][]string{artifact.Binaries: {`C:\tools\bin`}}
	p := NewPackage(module.Version{Path: "winflexbison", Version: "2.5.25"}, dirs)
	dirs[artifact.Headers] = []string{"late"}
	if p.Dirs(artifact.Headers) != nil {
		t.Error("NewPackage kept a reference to the caller's map")
	}
	if p.Reference != "winflexbison/2.5.25" {
		t.Errorf("Reference = %q", p.Reference)
	}
	if _, err := artifact.Locate(p, artifact.Binaries); err != nil {
		t.Errorf("Locate: %v", err)
	}
}

package moduledir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/ctree"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestOpen(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"app/module.yaml":             "product: jvm/app\napply:\n  - ../common.module-template.yaml\nsettings:\n  jvm:\n    release: 21\n",
		"common.module-template.yaml": "settings:\n  jvm:\n    release: 11\n    mainClass: Main\n",
	})
	dir, err := Open(filepath.Join(root, "app"))
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "app", "..", "common.module-template.yaml")
	if len(dir.Templates) != 1 || dir.Templates[0] != filepath.Clean(want) {
		t.Errorf("Open() templates = %v, want [%s]", dir.Templates, want)
	}
	srcs, err := dir.Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 2 || srcs[1].Name != dir.Module {
		t.Fatalf("Sources() = %v", srcs)
	}

	p := &ctree.Pipeline{Vocabulary: contexts.Default(), Schema: schema.Module}
	c := &diag.Collector{}
	trees, err := p.Parse(srcs, c)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Resolve(trees, contexts.NewSet(contexts.Platform("jvm")))
	if err != nil {
		t.Fatal(err)
	}
	if ds := append(c.Diagnostics(), res.Diagnostics...); len(ds) != 0 {
		t.Errorf("diagnostics = %v", ds)
	}
	jvm, err := res.Tree.Get(tree.MustParsePath("settings.jvm"))
	if err != nil {
		t.Fatal(err)
	}
	if got := tree.Dump(jvm); got != `{release: 21, mainClass: "Main"}` {
		t.Errorf("settings.jvm = %s", got)
	}
}

func TestOpenModuleFile(t *testing.T) {
	root := writeFiles(t, map[string]string{"m.yaml": "product: lib\n"})
	dir, err := Open(filepath.Join(root, "m.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if dir.Root != root || len(dir.Templates) != 0 {
		t.Errorf("Open() = %+v", dir)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing template", map[string]string{
			"module.yaml": "apply: [nope.module-template.yaml]",
		}},
		{"bad suffix", map[string]string{
			"module.yaml": "apply: [t.yaml]",
			"t.yaml":      "settings: {}",
		}},
		{"nested apply", map[string]string{
			"module.yaml":            "apply: [a.module-template.yaml]",
			"a.module-template.yaml": "apply: [b.module-template.yaml]",
			"b.module-template.yaml": "settings: {}",
		}},
	}
	for _, tt := range tests {
		_, err := Open(writeFiles(t, tt.files))
		if !errors.Is(err, ErrTemplate) {
			t.Errorf("%s: Open() error = %v, want ErrTemplate", tt.name, err)
		}
	}
	if _, err := Open(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Errorf("Open(missing dir) succeeded")
	}
}

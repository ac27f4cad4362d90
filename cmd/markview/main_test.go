package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/markview/internal/errors"
)

const (
	oldDoc = `{"type":"root","children":[
  {"type":"element","tagName":"h1","children":"Guide"},
  {"type":"element","tagName":"p","children":[{"type":"text","value":"See "},
    {"type":"element","tagName":"a","properties":{"href":"https://go.dev"},"children":"Go"}]},
  {"type":"element","tagName":"pre","children":[
    {"type":"element","tagName":"code","properties":{"className":["language-go"]},"children":"x := 1\n"}]}
]}`
	newDoc = `{"type":"root","children":[
  {"type":"element","tagName":"h1","children":"Guide"},
  {"type":"element","tagName":"p","children":[{"type":"text","value":"See "},
    {"type":"element","tagName":"a","properties":{"href":"https://go.dev"},"children":"Go"}]},
  {"type":"element","tagName":"pre","children":[
    {"type":"element","tagName":"code","properties":{"className":["language-go"]},"children":"x := 2\n"}]}
]}`
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", oldDoc)

	out, _, err := run(t, "", "render", path)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, want := range []string{
		"<h1>Guide</h1>",
		`<a href="https://go.dev" rel="noopener noreferrer" target="_blank">Go</a>`,
		`<span class="code-language">go</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandStdinPage(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.html")

	_, stderr, err := run(t, "<p>hello</p>", "render", "-", "--page", "--title", "Hello", "-o", output)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") || !strings.Contains(html, "<title>Hello</title>") {
		t.Errorf("page = %q", html)
	}
	if !strings.Contains(stderr, "Wrote "+output) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRenderCommandMissingSource(t *testing.T) {
	_, _, err := run(t, "", "render", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.HasCode(err, "E120") {
		t.Errorf("error = %v, want E120", err)
	}
}

func TestRenderCommandConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeDoc(t, dir, "markview.yaml", "render:\n  allowRawHTML: true\n")
	path := writeDoc(t, dir, "doc.json", `{"type":"root","children":[{"type":"raw","value":"<b>raw</b>"}]}`)

	out, _, err := run(t, "", "render", path, "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<b>raw</b>") {
		t.Errorf("output = %q, want raw HTML kept", out)
	}
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", oldDoc)
	b := writeDoc(t, dir, "b.json", newDoc)

	out, _, err := run(t, "", "diff", a, b)
	if err != nil {
		t.Fatalf("diff error = %v", err)
	}
	if !strings.HasPrefix(out, "2 rendered, 1 reused") {
		t.Errorf("summary = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "- ") || !strings.Contains(out, "+ ") {
		t.Errorf("missing line diff:\n%s", out)
	}
	if !strings.Contains(out, "x := 2") {
		t.Errorf("diff does not show the new code:\n%s", out)
	}

	out, _, err = run(t, "", "diff", a, a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0 rendered, 3 reused, 0 patches") || !strings.Contains(out, "no HTML changes") {
		t.Errorf("identical diff = %q", out)
	}
}

func TestInspectCommand(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "doc.json", oldDoc)

	out, _, err := run(t, "", "inspect", path, "--summary")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"element  5", "<code> 1", "languages: go(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "", "inspect", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"tagName": "h1"`) {
		t.Errorf("json = %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config lookup at an empty directory so the
// developer's own ~/.config/samup does not leak into tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func runCLI(t *testing.T, args []string, stdin string) (int, string, string) {
	t.Helper()
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTranscodesStdinToStdout(t *testing.T) {
	code, out, _ := runCLI(t, nil, "# Hello\n\n_world_")
	require.Equal(t, 0, code)
	assert.Equal(t, "<h1>Hello</h1>\n<p><i>world</i></p>", out)
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runCLI(t, []string{"--version"}, "")
	require.Equal(t, 0, code)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestUnknownFlagFails(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"--no-such-flag"}, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestFileInputAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.md")
	require.NoError(t, os.WriteFile(in, []byte("plain text"), 0o644))
	out := filepath.Join(dir, "nested", "out.html")

	code, stdout, stderr := runCLI(t, []string{"-o", out, in}, "")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>plain text</p>", string(data))
}

func TestMultipleInputsConcatenate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# One\n\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("# Two"), 0o644))

	code, out, stderr := runCLI(t, []string{a, b}, "")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "<h1>One</h1>\n<h1>Two</h1>", out)
}

func TestDashReadsStdin(t *testing.T) {
	code, out, _ := runCLI(t, []string{"-"}, "*bold*")
	require.Equal(t, 0, code)
	assert.Equal(t, "<p><strong>bold</strong></p>", out)
}

func TestURLInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# Remote"))
	}))
	defer srv.Close()

	code, out, stderr := runCLI(t, []string{srv.URL}, "")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "<h1>Remote</h1>", out)
}

func TestMissingFileFails(t *testing.T) {
	code, _, stderr := runCLI(t, []string{filepath.Join(t.TempDir(), "nope.md")}, "")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "open input")
}

func TestDocumentFlag(t *testing.T) {
	code, out, _ := runCLI(t, []string{"--title", "My Page"}, "body")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>My Page</title>")
	assert.Contains(t, out, "<p>body</p>")
}

func TestStylesheetFlag(t *testing.T) {
	css := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(css, []byte("body { color: teal }"), 0o644))

	code, out, _ := runCLI(t, []string{"-d", "--stylesheet", css}, "x")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "color: teal")
}

func TestValidateFlagRejectsBinary(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"--validate"}, "a\x00b")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "transcribe")
}

func TestWrapFlagBreaksLongLines(t *testing.T) {
	src := strings.Repeat("word ", 40)
	code, plain, _ := runCLI(t, nil, src)
	require.Equal(t, 0, code)
	assert.NotContains(t, plain, "\n")

	code, wrapped, _ := runCLI(t, []string{"-w", "40"}, src)
	require.Equal(t, 0, code)
	assert.Contains(t, wrapped, "\n")
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
}

func TestConfigFileProvidesDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "samup.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("document: true\ntitle: From Config\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", cfgPath}, strings.NewReader("hi"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "<title>From Config</title>")
}

func TestFlagsOverrideConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "samup.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("title: From Config\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", cfgPath, "--title", "From Flag"}, strings.NewReader("hi"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "<title>From Flag</title>")
	assert.NotContains(t, stdout.String(), "From Config")
}

func TestExplicitMissingConfigFails(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"-c", filepath.Join(t.TempDir(), "absent.yaml")}, "hi")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "load config")
}

func TestMalformedConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("wrap: [not an int\n"), 0o644))

	code, _, stderr := runCLI(t, []string{"-c", cfgPath}, "hi")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "load config")
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tacogips/sectionforge/internal/version"
)

// execute runs the command line with captured output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/sections/hero.liquid": "<h1>hero</h1>\n{% schema 'hero.yaml' %}\n",
		"src/schema/hero.yaml":     "name: Hero\nsettings: []\n",
		"sectionforge.json":        `{"from": {"liquid": "src/sections", "schema": "src/schema"}}`,
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestBuildCommand(t *testing.T) {
	root := writeProject(t)
	cfg := filepath.Join(root, "sectionforge.json")

	t.Run("writes output", func(t *testing.T) {
		out, _, err := execute(t, "build", "--no-color", "--config", cfg)
		if err != nil {
			t.Fatalf("build error = %v", err)
		}
		if !strings.Contains(out, "✓ sections/hero.liquid") {
			t.Errorf("output missing written key:\n%s", out)
		}
		data, err := os.ReadFile(filepath.Join(root, "dist", "sections", "hero.liquid"))
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		if !strings.Contains(string(data), "{% schema %}\n{\n  \"name\": \"Hero\",\n  \"settings\": []\n}\n{% endschema %}") {
			t.Errorf("unexpected output:\n%s", data)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		out, _, err := execute(t, "build", "--no-color", "--config", cfg, "--dry-run", "--output", filepath.Join(root, "preview"))
		if err != nil {
			t.Fatalf("build error = %v", err)
		}
		if !strings.Contains(out, "sections/hero.liquid") || !strings.Contains(out, "No files written") {
			t.Errorf("unexpected dry-run output:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(root, "preview")); !os.IsNotExist(err) {
			t.Error("dry run wrote files")
		}
	})

	t.Run("failed template exits with error", func(t *testing.T) {
		broken := filepath.Join(root, "src", "sections", "broken.liquid")
		if err := os.WriteFile(broken, []byte("{% schema 'nope.json' %}"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Remove(broken) })

		_, errOut, err := execute(t, "build", "--no-color", "--config", cfg)
		if !errors.Is(err, errDiagnostics) {
			t.Fatalf("error = %v, want errDiagnostics", err)
		}
		if !strings.Contains(errOut, "✗ broken.liquid") || !strings.Contains(errOut, "nope.json") {
			t.Errorf("diagnostic not printed:\n%s", errOut)
		}
	})

	t.Run("quiet still reports failures", func(t *testing.T) {
		broken := filepath.Join(root, "src", "sections", "broken.liquid")
		if err := os.WriteFile(broken, []byte("{% schema %}"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Remove(broken) })

		out, errOut, err := execute(t, "build", "--quiet", "--no-color", "--config", cfg)
		if err == nil {
			t.Fatal("expected error")
		}
		if out != "" {
			t.Errorf("quiet build printed to stdout:\n%s", out)
		}
		if !strings.Contains(errOut, "broken.liquid") {
			t.Errorf("diagnostic not printed in quiet mode:\n%s", errOut)
		}
	})

	t.Run("named generator from generator directory", func(t *testing.T) {
		genDir := filepath.Join(root, "generators")
		if err := os.MkdirAll(genDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(genDir, "grid.hcl"), []byte("name = upper(name)\n"), 0644); err != nil {
			t.Fatal(err)
		}
		tmpl := filepath.Join(root, "src", "sections", "gallery.liquid")
		if err := os.WriteFile(tmpl, []byte("{% schema '@grid' %}"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Remove(tmpl) })

		_, errOut, err := execute(t, "build", "--no-color", "--config", cfg, "--from-generators", genDir)
		if err != nil {
			t.Fatalf("build error = %v\n%s", err, errOut)
		}
		data, err := os.ReadFile(filepath.Join(root, "dist", "sections", "gallery.liquid"))
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		if want := "{% schema %}\n{\n  \"name\": \"GALLERY\"\n}\n{% endschema %}"; string(data) != want {
			t.Errorf("output = %q, want %q", data, want)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		_, errOut, err := execute(t, "build", "--no-color", "--config", filepath.Join(root, "missing.json"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(errOut, "Build failed") {
			t.Errorf("stderr = %q", errOut)
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		if _, _, err := execute(t, "build", "extra"); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

func TestVersionMetadataFromBuild(t *testing.T) {
	got := [3]string{Version, GitCommit, BuildDate}
	want := [3]string{version.Version, version.GitCommit, version.BuildDate}
	if got != want {
		t.Errorf("version metadata = %v, want the linked values %v", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	prev := [3]string{Version, GitCommit, BuildDate}
	Version, GitCommit, BuildDate = "1.0.0-test", "abc123", "2025-12-09"
	t.Cleanup(func() { Version, GitCommit, BuildDate = prev[0], prev[1], prev[2] })

	t.Run("normal output", func(t *testing.T) {
		out, _, err := execute(t, "version")
		if err != nil {
			t.Fatalf("version error = %v", err)
		}
		if !strings.Contains(out, "sectionforge version 1.0.0-test") || !strings.Contains(out, "Commit: abc123") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("short output", func(t *testing.T) {
		out, _, err := execute(t, "version", "--short")
		if err != nil {
			t.Fatalf("version error = %v", err)
		}
		if out != "1.0.0-test\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("JSON output", func(t *testing.T) {
		out, _, err := execute(t, "version", "--json")
		if err != nil {
			t.Fatalf("version error = %v", err)
		}
		var info VersionInfo
		if err := json.Unmarshal([]byte(out), &info); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if info.Version != "1.0.0-test" || info.BuildDate != "2025-12-09" {
			t.Errorf("info = %+v", info)
		}
	})
}

func TestBuildFlags_Options(t *testing.T) {
	cmd := NewRootCommand()
	build, _, err := cmd.Find([]string{"build"})
	if err != nil {
		t.Fatal(err)
	}
	if err := build.ParseFlags([]string{"-c", "x.yaml", "--from-liquid", "a", "--from-schema", "b", "--from-generators", "g", "--to", "c", "-o", "d", "-j", "3", "-d"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	for name, want := range map[string]string{
		FlagConfig: "x.yaml", FlagFromLiquid: "a", FlagFromSchema: "b", FlagGenerators: "g", FlagTo: "c",
		FlagOutput: "d", FlagConcurrency: "3", FlagDryRun: "true",
	} {
		if got := build.Flags().Lookup(name).Value.String(); got != want {
			t.Errorf("--%s = %q, want %q", name, got, want)
		}
	}

	watch, _, err := cmd.Find([]string{"watch"})
	if err != nil {
		t.Fatal(err)
	}
	if err := watch.ParseFlags([]string{"--interval", "250ms"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if got := watch.Flags().Lookup(FlagInterval).Value.String(); got != "250ms" {
		t.Errorf("--interval = %q", got)
	}
}

// TestFormatBytes tests byte formatting
func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{
			name:  "bytes",
			bytes: 512,
			want:  "512 B",
		},
		{
			name:  "kilobytes",
			bytes: 1536,
			want:  "1.5 KB",
		},
		{
			name:  "megabytes",
			bytes: 1048576,
			want:  "1.0 MB",
		},
		{
			name:  "gigabytes",
			bytes: 1073741824,
			want:  "1.0 GB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

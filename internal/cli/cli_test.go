package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmdHasSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, path := range [][]string{{"inspect"}, {"index"}, {"field"}, {"config", "merge"}} {
		if _, _, err := root.Find(path); err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
	}
}

func TestInspectFromStdin(t *testing.T) {
	t.Parallel()

	body := `{"took": 3, "status": 404, "error": {"type": "index_not_found_exception", "reason": "no such index", "root_cause": [{"reason": "missing"}]}, "hits": {"total": 0}}`
	out, _, err := execute(t, body, "inspect", "--get", "hits.total")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"status: 404", "type: index_not_found_exception", "- missing", "- took", "- hits", "hits.total: 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectMissingPath(t *testing.T) {
	t.Parallel()

	if _, _, err := execute(t, `{"a": 1}`, "inspect", "--get", "b"); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, _, err := execute(t, `[1]`, "inspect"); err == nil {
		t.Fatalf("expected error for non-object body")
	}
}

func TestIndexCmd(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "index", "remote:logs", "metrics", "--cluster", "")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	for _, want := range []string{"cluster: remote", "remote:logs", "resolved: metrics"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "", "index", "metrics", "--cluster", "east")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(out, "east:metrics") {
		t.Fatalf("expected qualified name, got:\n%s", out)
	}
}

func TestFieldCmd(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "field", "LeadOwner", "--inferrer", "snake")
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if !strings.Contains(out, "LeadOwner: lead_owner") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, _, err = execute(t, "", "field", "LeadOwner", "--expression", `"x_" + snake(name)`)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if !strings.Contains(out, "LeadOwner: x_lead_owner") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := execute(t, "", "field", "Name", "--inferrer", "kebab"); err == nil {
		t.Fatalf("expected unknown inferrer error")
	}
}

func TestConfigMergeCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	override := filepath.Join(dir, "override.yaml")
	writeFile(t, base, "default_index: base\ntypes:\n  project:\n    index: projects\n")
	writeFile(t, override, "default_index: override\n")

	out, errOut, err := execute(t, "", "config", "merge", "-v", base, override)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !strings.Contains(out, "default_index: override") || !strings.Contains(out, "index: projects") {
		t.Fatalf("unexpected merged output:\n%s", out)
	}
	if !strings.Contains(errOut, "applied 0-base") || !strings.Contains(errOut, "applied 1-override") {
		t.Fatalf("expected layer reports, got:\n%s", errOut)
	}

	out, _, err = execute(t, "", "config", "merge", "--trace", "default_index", base, override)
	if err != nil {
		t.Fatalf("merge trace: %v", err)
	}
	if !strings.Contains(out, "winner: 1-override") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestJSRuntimeE2E_CachePersistsAcrossProcesses(t *testing.T) {
	bin := buildBinary(t, "js-runtime", false)
	cache := filepath.Join(t.TempDir(), "functions.json")

	r := runCmd(t, bin, `{"args":["x"],"body":"return x * 2;"}`, "new-function", "--cache", cache)
	if r.code != 0 || len(r.stderr) != 0 {
		t.Fatalf("new-function failed: code=%d stderr=%s", r.code, string(r.stderr))
	}
	var reg struct {
		FunctionID string `json:"functionId"`
		Source     string `json:"source"`
	}
	if err := json.Unmarshal(r.stdout, &reg); err != nil {
		t.Fatalf("decode %q: %v", string(r.stdout), err)
	}

	b, err := os.ReadFile(cache)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("decode cache: %v", err)
	}
	if doc[reg.FunctionID]["source"] != reg.Source {
		t.Fatalf("cache does not hold %s: %s", reg.FunctionID, string(b))
	}

	r = runCmd(t, bin, `{"functionId":"`+reg.FunctionID+`","args":[21]}`, "execute", "--cache", cache)
	if r.code != 0 {
		t.Fatalf("execute failed: code=%d stderr=%s", r.code, string(r.stderr))
	}
	if got := string(r.stdout); got != "{\"result\":42}\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestJSRuntimeE2E_Failures(t *testing.T) {
	bin := buildBinary(t, "js-runtime", false)
	cache := filepath.Join(t.TempDir(), "functions.json")

	cases := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"unknown command", `{}`, []string{"compile"}, "Unknown command: compile"},
		{"malformed json", `{`, []string{"execute"}, "unexpected end of JSON input"},
		{"not found", `{"functionId":"fn_1_xxxxxxxxx"}`, []string{"execute"}, "Function fn_1_xxxxxxxxx not found in cache and no source provided"},
		{"nothing to run", `{}`, []string{"execute"}, "Either functionId or source must be provided"},
		{"empty body", `{"args":["a"]}`, []string{"new-function"}, "function body is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := runCmd(t, bin, tc.stdin, append(tc.args, "--cache", cache)...)
			if r.code != 1 {
				t.Fatalf("expected exit 1, got %d", r.code)
			}
			if len(r.stdout) != 0 {
				t.Fatalf("expected empty stdout, got %q", string(r.stdout))
			}
			var payload map[string]any
			if err := json.Unmarshal(r.stderr, &payload); err != nil {
				t.Fatalf("stderr is not JSON: %q", string(r.stderr))
			}
			if payload["error"] != tc.wantErr {
				t.Fatalf("unexpected error: %v", payload["error"])
			}
		})
	}
}

func TestJSRuntimeE2E_ThrowCarriesStack(t *testing.T) {
	bin := buildBinary(t, "js-runtime", false)
	r := runCmd(t, bin, `{"source":"(function(){ throw new Error('boom') })"}`, "execute",
		"--cache", filepath.Join(t.TempDir(), "functions.json"))
	if r.code != 1 {
		t.Fatalf("expected exit 1, got %d", r.code)
	}
	var payload map[string]any
	if err := json.Unmarshal(r.stderr, &payload); err != nil {
		t.Fatalf("stderr is not JSON: %q", string(r.stderr))
	}
	if payload["error"] != "boom" {
		t.Fatalf("unexpected error: %v", payload["error"])
	}
	if s, _ := payload["stack"].(string); s == "" {
		t.Fatalf("expected a stack, got %v", payload)
	}
}

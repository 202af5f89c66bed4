package generator_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ctagard/bazel-debug-config/internal/errors"
	"github.com/ctagard/bazel-debug-config/internal/generator"
	"github.com/ctagard/bazel-debug-config/internal/launchconfig"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

// fakeRunner stands in for bazel.
type fakeRunner struct {
	workspace string
	buildErr  error

	builds  [][]string
	queries []string
}

func (f *fakeRunner) Build(ctx context.Context, targets ...string) error {
	f.builds = append(f.builds, targets)
	return f.buildErr
}

func (f *fakeRunner) Info(ctx context.Context, key string, extra ...string) (string, error) {
	f.queries = append(f.queries, key)
	switch key {
	case "workspace":
		return f.workspace, nil
	case "execution_root":
		return "/cache/execroot/ws", nil
	case "bazel-bin":
		return "/cache/execroot/ws/bazel-out/k8-dbg/bin", nil
	}
	return "", nil
}

func newGenerator(r *fakeRunner) (*generator.Generator, *bytes.Buffer) {
	var logs bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logs)
	log.SetLevel(logrus.DebugLevel)
	return generator.New(r, nil, log), &logs
}

func readDoc(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("%s is not valid JSON: %v", path, err)
	}
	return doc
}

func configurations(t *testing.T, doc map[string]interface{}) []map[string]interface{} {
	t.Helper()
	list, ok := doc["configurations"].([]interface{})
	if !ok {
		t.Fatalf("configurations missing: %v", doc)
	}
	out := make([]map[string]interface{}, len(list))
	for i, c := range list {
		out[i] = c.(map[string]interface{})
	}
	return out
}

// TestRun_FreshWorkspace verifies a first run creates launch.json with one entry.
func TestRun_FreshWorkspace(t *testing.T) {
	ws := t.TempDir()
	r := &fakeRunner{workspace: ws}
	g, _ := newGenerator(r)

	res, err := g.Run(context.Background(), types.GenerateRequest{
		Target:   "//source/exe:envoy-static",
		Debugger: types.DebuggerGDB,
		Args:     "--concurrency 1",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Action != string(launchconfig.ActionAppended) || res.BackupPath != "" {
		t.Errorf("unexpected result %+v", res)
	}
	wantProgram := filepath.Join("/cache/execroot/ws/bazel-out/k8-dbg/bin", "source", "exe", "envoy-static")
	if res.Program != wantProgram {
		t.Errorf("expected program %s, got %s", wantProgram, res.Program)
	}

	doc := readDoc(t, filepath.Join(ws, ".vscode", "launch.json"))
	if doc["version"] != "0.2.0" {
		t.Errorf("expected version 0.2.0, got %v", doc["version"])
	}
	configs := configurations(t, doc)
	if len(configs) != 1 {
		t.Fatalf("expected one entry, got %d", len(configs))
	}
	entry := configs[0]
	if entry["name"] != "gdb //source/exe:envoy-static" || entry["program"] != wantProgram {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["miDebuggerArgs"] != "--directory=/cache/execroot/ws" {
		t.Errorf("unexpected miDebuggerArgs %v", entry["miDebuggerArgs"])
	}
	if !reflect.DeepEqual(entry["args"], []interface{}{"--concurrency", "1"}) {
		t.Errorf("unexpected args %v", entry["args"])
	}

	wantBuild := [][]string{{"//source/exe:envoy-static", "//source/exe:envoy-static.dwp"}}
	if !reflect.DeepEqual(r.builds, wantBuild) {
		t.Errorf("builds = %v, want %v", r.builds, wantBuild)
	}
}

// TestRun_OverwriteTwice verifies a second run with overwrite keeps one entry
// and backs up the first run's output.
func TestRun_OverwriteTwice(t *testing.T) {
	ws := t.TempDir()
	g, _ := newGenerator(&fakeRunner{workspace: ws})
	req := types.GenerateRequest{Target: "//a:b", Debugger: types.DebuggerLLDB}

	if _, err := g.Run(context.Background(), req); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	launchPath := filepath.Join(ws, ".vscode", "launch.json")
	firstOutput, err := os.ReadFile(launchPath)
	if err != nil {
		t.Fatalf("failed to read first output: %v", err)
	}

	req.Overwrite = true
	res, err := g.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if res.Action != string(launchconfig.ActionReplaced) {
		t.Errorf("expected replaced, got %s", res.Action)
	}

	if configs := configurations(t, readDoc(t, launchPath)); len(configs) != 1 {
		t.Errorf("expected one entry, got %d", len(configs))
	}
	backup, err := os.ReadFile(launchPath + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, firstOutput) {
		t.Error("expected backup to equal the first run's output")
	}
}

// TestRun_RefreshKeepsUserFields verifies a run without overwrite only
// refreshes the debugger's fields of a hand-edited entry.
func TestRun_RefreshKeepsUserFields(t *testing.T) {
	ws := t.TempDir()
	untouched := `        {
            "name": "mine",
            "type": "cppdbg",
            "preLaunchTask": "a && b <x>",
            "note": "caf\u00e9"
        }`
	existing := `{
    "version": "0.2.0",
    "configurations": [
` + untouched + `,
        {
            "name": "gdb //a:b",
            "type": "cppdbg",
            "request": "launch",
            "program": "/stale/path",
            "args": ["--my-flag"],
            "stopAtEntry": true,
            "preLaunchTask": "a && b"
        }
    ]
}`
	if err := os.MkdirAll(filepath.Join(ws, ".vscode"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	launchPath := filepath.Join(ws, ".vscode", "launch.json")
	if err := os.WriteFile(launchPath, []byte(existing), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	g, logs := newGenerator(&fakeRunner{workspace: ws})
	res, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", Args: "--other"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Action != string(launchconfig.ActionRefreshed) {
		t.Errorf("expected refreshed, got %s", res.Action)
	}
	if !bytes.Contains(logs.Bytes(), []byte("use --overwrite")) {
		t.Errorf("expected a refresh notice, got logs:\n%s", logs.String())
	}

	written, err := os.ReadFile(launchPath)
	if err != nil {
		t.Fatalf("failed to read launch.json: %v", err)
	}
	if !bytes.Contains(written, []byte(untouched)) {
		t.Errorf("expected the untouched entry byte for byte, got:\n%s", written)
	}
	if !bytes.Contains(written, []byte(`"preLaunchTask": "a && b"`)) {
		t.Errorf("expected user field bytes kept, got:\n%s", written)
	}

	configs := configurations(t, readDoc(t, launchPath))
	if len(configs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(configs))
	}
	entry := configs[1]
	if entry["program"] != filepath.Join("/cache/execroot/ws/bazel-out/k8-dbg/bin", "a", "b") {
		t.Errorf("expected program refreshed, got %v", entry["program"])
	}
	if !reflect.DeepEqual(entry["args"], []interface{}{"--my-flag"}) {
		t.Errorf("expected user args kept, got %v", entry["args"])
	}
	if entry["stopAtEntry"] != true {
		t.Error("expected user field kept")
	}
	if entry["cwd"] != "${workspaceFolder}" {
		t.Errorf("expected cwd added, got %v", entry["cwd"])
	}
}

// TestRun_BuildFailure verifies a failed build aborts before launch.json is touched.
func TestRun_BuildFailure(t *testing.T) {
	ws := t.TempDir()
	r := &fakeRunner{
		workspace: ws,
		buildErr:  errors.BuildFailed([]string{"//a:b"}, 1, nil),
	}
	g, _ := newGenerator(r)

	_, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b"})
	if err == nil {
		t.Fatal("expected build failure")
	}
	if errors.ExitCode(err) != 1 {
		t.Errorf("expected exit code 1, got %d", errors.ExitCode(err))
	}
	if _, statErr := os.Stat(filepath.Join(ws, ".vscode")); !os.IsNotExist(statErr) {
		t.Error("expected no .vscode directory after failed build")
	}
	for _, q := range r.queries {
		if q == "bazel-bin" {
			t.Error("expected no bazel-bin query after failed build")
		}
	}
}

// TestRun_CompileCommands verifies the compilation database short-circuits
// the execution_root query.
func TestRun_CompileCommands(t *testing.T) {
	ws := t.TempDir()
	db := `[{"directory": "/from/compdb", "file": "a.cc", "command": "cc a.cc"}]`
	if err := os.WriteFile(filepath.Join(ws, "compile_commands.json"), []byte(db), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	r := &fakeRunner{workspace: ws}
	g, _ := newGenerator(r)
	res, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", Debugger: types.DebuggerLLDB})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.ExecutionRoot != "/from/compdb" {
		t.Errorf("expected execution root from compile_commands.json, got %s", res.ExecutionRoot)
	}
	for _, q := range r.queries {
		if q == "execution_root" {
			t.Error("execution_root must not be queried")
		}
	}

	entry := configurations(t, readDoc(t, res.LaunchPath))[0]
	sourceMap := entry["sourceMap"].(map[string]interface{})
	if sourceMap["/proc/self/cwd/external"] != "/from/compdb/external" {
		t.Errorf("unexpected sourceMap %v", sourceMap)
	}
	if sourceMap["/proc/self/cwd"] != ws {
		t.Errorf("expected workspace mapping, got %v", sourceMap["/proc/self/cwd"])
	}
}

// TestRun_MalformedLaunchJSON verifies a broken file is replaced and kept as backup.
func TestRun_MalformedLaunchJSON(t *testing.T) {
	ws := t.TempDir()
	launchPath := filepath.Join(ws, ".vscode", "launch.json")
	if err := os.MkdirAll(filepath.Dir(launchPath), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(launchPath, []byte(`{"configurations": [`), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	g, _ := newGenerator(&fakeRunner{workspace: ws})
	if _, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	doc := readDoc(t, launchPath)
	if doc["version"] != "0.2.0" || len(configurations(t, doc)) != 1 {
		t.Errorf("expected a fresh document, got %v", doc)
	}
	backup, _ := os.ReadFile(launchPath + ".bak")
	if string(backup) != `{"configurations": [` {
		t.Errorf("expected broken file preserved as backup, got %q", backup)
	}
}

// TestRun_DryRun verifies nothing is written on a dry run.
func TestRun_DryRun(t *testing.T) {
	ws := t.TempDir()
	g, _ := newGenerator(&fakeRunner{workspace: ws})

	res, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Rendered == "" {
		t.Error("expected rendered output")
	}
	if _, err := os.Stat(filepath.Join(ws, ".vscode")); !os.IsNotExist(err) {
		t.Error("dry run must not create files")
	}
}

// TestRun_WorkspaceOverride verifies --workspace skips the workspace query.
func TestRun_WorkspaceOverride(t *testing.T) {
	ws := t.TempDir()
	r := &fakeRunner{workspace: "/not/used"}
	g, _ := newGenerator(r)

	res, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", Workspace: ws})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Workspace != ws {
		t.Errorf("expected %s, got %s", ws, res.Workspace)
	}
	for _, q := range r.queries {
		if q == "workspace" {
			t.Error("workspace must not be queried when overridden")
		}
	}
}

// TestRun_Validation verifies missing targets and bad args are rejected.
func TestRun_Validation(t *testing.T) {
	ws := t.TempDir()
	r := &fakeRunner{workspace: ws}
	g, _ := newGenerator(r)

	_, err := g.Run(context.Background(), types.GenerateRequest{})
	if errors.FromError(err).Code != errors.CodeMissingParameter {
		t.Errorf("expected MISSING_PARAMETER, got %v", err)
	}

	_, err = g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", Args: `"oops`})
	if errors.FromError(err).Code != errors.CodeInvalidParameter {
		t.Errorf("expected INVALID_PARAMETER, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(ws, ".vscode")); !os.IsNotExist(statErr) {
		t.Error("expected nothing written for invalid args")
	}
	if len(r.builds) != 0 || len(r.queries) != 0 {
		t.Errorf("expected invalid args to be rejected before bazel runs, got builds %v queries %v", r.builds, r.queries)
	}
}

// TestList verifies existing entries are summarised.
func TestList(t *testing.T) {
	ws := t.TempDir()
	g, _ := newGenerator(&fakeRunner{workspace: ws})
	for _, d := range []types.DebuggerKind{types.DebuggerGDB, types.DebuggerLLDB} {
		if _, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b", Debugger: d}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	listing, err := generator.List(ws)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listing.Configurations) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(listing.Configurations))
	}
	if listing.Configurations[0].Type != "cppdbg" || listing.Configurations[1].Type != "lldb" {
		t.Errorf("unexpected configurations %+v", listing.Configurations)
	}
	if len(listing.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", listing.Warnings)
	}

	_, err = generator.List(t.TempDir())
	if err == nil {
		t.Fatal("expected error for workspace without launch.json")
	}
	if code := errors.FromError(err).Code; code != errors.CodeLaunchJSONUnreadable {
		t.Errorf("expected LAUNCH_JSON_UNREADABLE, got %s", code)
	}
	if errors.FromError(err).Hint == "" {
		t.Error("expected a hint")
	}
}

// TestShow verifies a single entry is found by name.
func TestShow(t *testing.T) {
	ws := t.TempDir()
	g, _ := newGenerator(&fakeRunner{workspace: ws})
	if _, err := g.Run(context.Background(), types.GenerateRequest{Target: "//a:b"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cfg, err := generator.Show(ws, "gdb //a:b")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if cfg.Type() != "cppdbg" {
		t.Errorf("expected cppdbg, got %s", cfg.Type())
	}

	if _, err := generator.Show(ws, "lldb //a:b"); err == nil {
		t.Error("expected error for unknown entry")
	}
}

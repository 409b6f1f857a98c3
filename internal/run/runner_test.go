package run

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jacoelho/jp/internal/config"
	"github.com/jacoelho/jp/internal/formatter/stdout"
)

func newTestRunner(t *testing.T, cfg *config.Config) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	if cfg.Output == "" {
		cfg.Output = config.OutputText
	}

	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New() exit result: %s", exitResult.Message)
	}

	var out, errOut bytes.Buffer
	r.SetFormatter(stdout.NewWithWriter(cfg.Output == config.OutputJSON, cfg.MaxMatches, &out))
	r.SetErrorOutput(&errOut)
	return r, &out, &errOut
}

func TestRunOnceFromStdin(t *testing.T) {
	cfg := &config.Config{Expression: "$.items[*]"}
	r, out, errOut := newTestRunner(t, cfg)
	r.SetInput(strings.NewReader(`{"items": ["a", "b"]}`))

	code := r.Run(context.Background())

	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if got := out.String(); got != "a\nb\n" {
		t.Errorf("output = %q, want %q", got, "a\nb\n")
	}
}

func TestRunOnceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"a": {"b": 5}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &config.Config{Expression: "$.a.b", InputFile: path}
	r, out, _ := newTestRunner(t, cfg)

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := out.String(); got != "5\n" {
		t.Errorf("output = %q, want %q", got, "5\n")
	}
}

func TestRunOnceYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("items:\n  - name: alice\n  - name: bob\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &config.Config{Expression: "$.items[*].name", InputFile: path}
	r, out, _ := newTestRunner(t, cfg)

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := out.String(); got != "alice\nbob\n" {
		t.Errorf("output = %q, want %q", got, "alice\nbob\n")
	}
}

func TestRunOnceNotFoundProperty(t *testing.T) {
	cfg := &config.Config{Expression: "foo"}
	r, out, errOut := newTestRunner(t, cfg)
	r.SetInput(strings.NewReader(`{}`))

	if code := r.Run(context.Background()); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errOut.String(), "foo") {
		t.Errorf("stderr %q should name the missing property", errOut.String())
	}
}

func TestRunOnceInvalidDocument(t *testing.T) {
	cfg := &config.Config{Expression: "$.a"}
	r, _, errOut := newTestRunner(t, cfg)
	r.SetInput(strings.NewReader(`{"unterminated`))

	if code := r.Run(context.Background()); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if errOut.Len() == 0 {
		t.Error("stderr should report the decode failure")
	}
}

func TestRunOnceStrictMode(t *testing.T) {
	cfg := &config.Config{Expression: "$.items[0]", Strict: true}
	r, out, _ := newTestRunner(t, cfg)
	r.SetInput(strings.NewReader(`{"items": ["first", "second"]}`))

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := out.String(); got != "first\n" {
		t.Errorf("output = %q, want %q", got, "first\n")
	}
}

func TestRunOnceStrictModeSyntaxError(t *testing.T) {
	cfg := &config.Config{Expression: "not a path", Strict: true}
	r, _, errOut := newTestRunner(t, cfg)
	r.SetInput(strings.NewReader(`{}`))

	if code := r.Run(context.Background()); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if errOut.Len() == 0 {
		t.Error("stderr should report the syntax error")
	}
}

// syncBuffer guards concurrent writes from the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatchEvaluatesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"status": "ok"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &config.Config{
		Expression: "$.status",
		InputFile:  path,
		Output:     config.OutputText,
		Watch:      true,
		PollRate:   50,
	}
	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New() exit result: %s", exitResult.Message)
	}

	out := &syncBuffer{}
	r.SetFormatter(stdout.NewWithWriter(false, 0, out))
	r.SetErrorOutput(&syncBuffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	// First evaluation fires on the initial mod time; rewrite the file
	// with a newer timestamp to trigger a second one.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"status": "changed"}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	now := time.Now().Add(time.Second)
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for !strings.Contains(out.String(), "changed") {
		select {
		case <-deadline:
			t.Fatalf("second evaluation never happened, output: %q", out.String())
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if code := <-done; code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	if !strings.Contains(out.String(), "ok") {
		t.Errorf("output %q should contain the first evaluation", out.String())
	}
}

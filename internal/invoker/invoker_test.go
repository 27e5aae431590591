package invoker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

// writeFakeTool writes a shell script that records its arguments and
// working directory, prints a line and exits with code.
func writeFakeTool(t *testing.T, code int) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake tool is a shell script")
	}

	path := filepath.Join(t.TempDir(), "swagger-coverage-commandline")
	script := fmt.Sprintf(`#!/bin/sh
echo "$@" > args.txt
pwd > pwd.txt
echo "tool output"
exit %d
`, code)
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil { //nolint:gosec // test executable
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

// TestCommand tests command line construction.
func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		inv  Invocation
		want []string
	}{
		{
			name: "without config",
			inv:  Invocation{ToolPath: "tool", SpecFile: "swagger-doc-api.json", OutputDir: "out"},
			want: []string{"tool", "-s", "swagger-doc-api.json", "-i", "out"},
		},
		{
			name: "with config",
			inv:  Invocation{ToolPath: "tool", SpecFile: "swagger-doc-api.json", OutputDir: "out", ConfigFile: "swagger-coverage-config-api.json"},
			want: []string{"tool", "-s", "swagger-doc-api.json", "-i", "out", "-c", "swagger-coverage-config-api.json"},
		},
		{
			name: "with launcher",
			inv:  Invocation{ToolPath: "tool", SpecFile: "s", OutputDir: "o", Launcher: "sh"},
			want: []string{"sh", "tool", "-s", "s", "-i", "o"},
		},
		{
			name: "quoted launcher words",
			inv:  Invocation{ToolPath: "tool", SpecFile: "s", OutputDir: "o", Launcher: `env "A=b c"`},
			want: []string{"env", "A=b c", "tool", "-s", "s", "-i", "o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Command(tt.inv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("unterminated quote", func(t *testing.T) {
		t.Parallel()

		_, err := Command(Invocation{ToolPath: "tool", Launcher: `sh "oops`})
		if !errors.Is(err, ErrInvalidLauncher) {
			t.Errorf("expected ErrInvalidLauncher, got %v", err)
		}
	})
}

// TestRunToolNotFound tests that nothing runs without the tool.
func TestRunToolNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "swagger-coverage-commandline", "bin", "swagger-coverage-commandline")
	_, err := New().Run(t.Context(), Invocation{ToolPath: missing, SpecFile: "s", OutputDir: "o"})
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("expected the probed path in the error: %v", err)
	}

	if _, err := New().Run(t.Context(), Invocation{ToolPath: t.TempDir()}); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound for a directory, got %v", err)
	}
}

// TestRun tests running the tool.
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("runs in the work dir with the expected args", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, 0)
		work := t.TempDir()
		var stdout bytes.Buffer

		res, err := New(WithOutput(&stdout, &stdout)).Run(t.Context(), Invocation{
			ToolPath:   tool,
			SpecFile:   "swagger-doc-api.json",
			OutputDir:  "swagger-coverage-output/localhost_5051",
			ConfigFile: "swagger-coverage-config-api.json",
			WorkDir:    work,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", res.ExitCode)
		}

		args, err := os.ReadFile(filepath.Join(work, "args.txt"))
		if err != nil {
			t.Fatalf("expected tool to run in work dir: %v", err)
		}
		want := "-s swagger-doc-api.json -i swagger-coverage-output/localhost_5051 -c swagger-coverage-config-api.json"
		if strings.TrimSpace(string(args)) != want {
			t.Errorf("expected args %q, got %q", want, args)
		}
		if stdout.Len() != 0 {
			t.Errorf("expected output to be hidden, got %q", stdout.String())
		}
	})

	t.Run("debug streams output", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, 0)
		var stdout bytes.Buffer

		_, err := New(WithOutput(&stdout, &stdout)).Run(t.Context(), Invocation{
			ToolPath:  tool,
			SpecFile:  "s",
			OutputDir: "o",
			WorkDir:   t.TempDir(),
			Debug:     true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "tool output") {
			t.Errorf("expected tool output, got %q", stdout.String())
		}
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, 3)
		res, err := New().Run(t.Context(), Invocation{
			ToolPath:  tool,
			SpecFile:  "s",
			OutputDir: "o",
			WorkDir:   t.TempDir(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("expected exit code 3, got %d", res.ExitCode)
		}
	})

	t.Run("launcher runs the tool", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, 0)
		work := t.TempDir()
		res, err := New().Run(t.Context(), Invocation{
			ToolPath:  tool,
			SpecFile:  "s",
			OutputDir: "o",
			WorkDir:   work,
			Launcher:  "sh",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Args[0] != "sh" {
			t.Errorf("expected launcher first, got %v", res.Args)
		}
		if _, err := os.Stat(filepath.Join(work, "args.txt")); err != nil {
			t.Errorf("expected tool to run: %v", err)
		}
	})
}

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/nao1215/swaggercov/internal/fetch"
)

// TestReadPasswordLine tests reading a piped password.
func TestReadPasswordLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"line with newline", "s3cret\n", "s3cret", nil},
		{"windows line ending", "s3cret\r\n", "s3cret", nil},
		{"no trailing newline", "s3cret", "s3cret", nil},
		{"only first line", "first\nsecond\n", "first", nil},
		{"empty input", "", "", errEmptyPassword},
		{"blank line", "\n", "", errEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := readPasswordLine(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestCredentialsCmd tests storing and deleting a password through the
// mock keyring.
func TestCredentialsCmd(t *testing.T) {
	keyring.MockInit()

	set := NewCredentialsCmd()
	set.SetOut(&bytes.Buffer{})
	set.SetIn(strings.NewReader("hunter2\n"))
	set.SetArgs([]string{"set", "--api", "dm-api-account", "--user", "tester", "--stdin"})
	if err := set.Execute(); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := fetch.LookupPassword("dm-api-account", "tester")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("expected stored password, got %q", got)
	}

	del := NewCredentialsCmd()
	del.SetOut(&bytes.Buffer{})
	del.SetArgs([]string{"delete", "-a", "dm-api-account", "-u", "tester"})
	if err := del.Execute(); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := fetch.LookupPassword("dm-api-account", "tester"); !errors.Is(err, fetch.ErrPasswordNotFound) {
		t.Errorf("expected ErrPasswordNotFound after delete, got %v", err)
	}
}

// TestCredentialsCmd_RequiredFlags tests that api and user are required.
func TestCredentialsCmd_RequiredFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCredentialsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"delete", "--api", "dm-api-account"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without --user")
	}
}

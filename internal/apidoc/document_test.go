package apidoc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const swaggerDoc = `{
  "swagger": "2.0",
  "info": {"title": "dm-api-account", "version": "1.0"},
  "basePath": "/",
  "paths": {
    "/v1/account": {
      "get": {"responses": {"200": {"description": "ok"}}},
      "post": {"responses": {"201": {"description": "created"}}}
    },
    "/v1/account/login": {
      "post": {"responses": {"200": {"description": "ok"}}}
    },
    "/v1/forum": {
      "get": {"responses": {"200": {"description": "ok"}}}
    }
  }
}`

const openAPIDoc = `openapi: 3.0.3
info:
  title: forum
  version: "2.1"
paths:
  /v2/forum:
    get:
      responses:
        200:
          description: ok
  /v2/forum/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    get:
      responses:
        200:
          description: ok
    delete:
      responses:
        204:
          description: gone
`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()

	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return doc
}

// TestParse tests version detection.
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantKind   Kind
		wantVer    string
		wantVerErr bool
		wantErr    error
	}{
		{name: "swagger json", data: swaggerDoc, wantKind: KindSwagger2, wantVer: "2.0"},
		{name: "openapi yaml", data: openAPIDoc, wantKind: KindOpenAPI3, wantVer: "3.0.3"},
		{name: "openapi 3.1 json", data: `{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{}}`, wantKind: KindOpenAPI3, wantVer: "3.1.0"},
		{name: "swagger 1.2 is unknown", data: `{"swagger":"1.2"}`, wantKind: KindUnknown, wantVerErr: true},
		{name: "openapi 4 is unknown", data: `{"openapi":"4.0.0"}`, wantKind: KindUnknown, wantVerErr: true},
		{name: "garbage version is unknown", data: `{"openapi":"three"}`, wantKind: KindUnknown, wantVerErr: true},
		{name: "no version field is unknown", data: `{"paths":{}}`, wantKind: KindUnknown, wantVerErr: true},
		{name: "array is not a document", data: `[1,2,3]`, wantErr: ErrInvalidDocument},
		{name: "null is not a document", data: `null`, wantErr: ErrInvalidDocument},
		{name: "trailing JSON is not a document", data: `{"a":1} {"b":2}`, wantErr: ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Kind() != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, doc.Kind())
			}
			if doc.Version() != tt.wantVer {
				t.Errorf("expected version %q, got %q", tt.wantVer, doc.Version())
			}
			verErr := doc.VersionError()
			if tt.wantVerErr && !errors.Is(verErr, ErrUnsupportedVersion) {
				t.Errorf("expected ErrUnsupportedVersion, got %v", verErr)
			}
			if !tt.wantVerErr && verErr != nil {
				t.Errorf("unexpected version error: %v", verErr)
			}
		})
	}
}

// TestUnknownKind tests that a document without a version is filtered and
// written but not validated or counted.
func TestUnknownKind(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"info":{"title":"legacy"},"paths":{"/a":{},"/b":{}}}`)

	if removed := doc.Filter([]string{"/a"}); !reflect.DeepEqual(removed, []string{"/a"}) {
		t.Errorf("expected /a removed, got %v", removed)
	}
	if _, err := doc.Operations(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion from Operations, got %v", err)
	}
	if err := doc.Validate(t.Context()); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion from Validate, got %v", err)
	}

	data, err := doc.Marshal(FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), `"/a"`) || !strings.Contains(string(data), `"/b"`) {
		t.Errorf("expected only /b in output:\n%s", data)
	}
}

// TestMarshal_Numbers tests that numbers are written back exactly.
func TestMarshal_Numbers(t *testing.T) {
	t.Parallel()

	const bigJSON = `{
  "swagger": "2.0",
  "info": {"title": "ledger", "version": "1.0"},
  "definitions": {
    "Amount": {
      "type": "integer",
      "format": "int64",
      "example": 9007199254740993,
      "maximum": 12345678901234567890,
      "minimum": -9223372036854775808,
      "multipleOf": 0.1,
      "default": 1e2
    }
  },
  "paths": {}
}`
	literals := []string{"9007199254740993", "12345678901234567890", "-9223372036854775808", "0.1", "1e2"}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := mustParse(t, bigJSON).Marshal(FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, lit := range literals {
			if !strings.Contains(string(data), ": "+lit+",") && !strings.Contains(string(data), ": "+lit+"\n") {
				t.Errorf("expected %s in output:\n%s", lit, data)
			}
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		data, err := mustParse(t, bigJSON).Marshal(FormatYAML)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, lit := range literals {
			if !strings.Contains(string(data), ": "+lit+"\n") {
				t.Errorf("expected %s in output:\n%s", lit, data)
			}
		}

		// And back to JSON without loss.
		again, err := mustParse(t, string(data)).Marshal(FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, lit := range literals {
			if !strings.Contains(string(again), lit) {
				t.Errorf("expected %s after YAML round-trip:\n%s", lit, again)
			}
		}
	})

	t.Run("big integers still validate", func(t *testing.T) {
		t.Parallel()

		if _, err := mustParse(t, bigJSON).Operations(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestParse_YAMLMerge tests that YAML merge keys are resolved.
func TestParse_YAMLMerge(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `openapi: 3.0.3
info: {title: t, version: "1"}
x-ok: &ok
  description: ok
paths:
  /a:
    get:
      responses:
        200:
          <<: *ok
          description: overridden
`)
	data, err := doc.Marshal(FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"description": "overridden"`) {
		t.Errorf("expected explicit key to win over merge:\n%s", data)
	}
	if n, err := doc.Operations(); err != nil || n != 1 {
		t.Errorf("expected 1 operation, got %d (%v)", n, err)
	}
}

// TestFilter tests prefix-based path removal.
func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		prefixes    []string
		wantRemoved []string
		wantKept    []string
	}{
		{
			name:        "no prefixes keep everything",
			prefixes:    nil,
			wantRemoved: nil,
			wantKept:    []string{"/v1/account", "/v1/account/login", "/v1/forum"},
		},
		{
			name:        "prefix removes nested paths",
			prefixes:    []string{"/v1/account"},
			wantRemoved: []string{"/v1/account", "/v1/account/login"},
			wantKept:    []string{"/v1/forum"},
		},
		{
			name:        "exact nested path only",
			prefixes:    []string{"/v1/account/login"},
			wantRemoved: []string{"/v1/account/login"},
			wantKept:    []string{"/v1/account", "/v1/forum"},
		},
		{
			name:        "unknown prefix removes nothing",
			prefixes:    []string{"/v2"},
			wantRemoved: nil,
			wantKept:    []string{"/v1/account", "/v1/account/login", "/v1/forum"},
		},
		{
			name:        "several prefixes",
			prefixes:    []string{"/v1/forum", "/v1/account/login"},
			wantRemoved: []string{"/v1/account/login", "/v1/forum"},
			wantKept:    []string{"/v1/account"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, swaggerDoc)
			removed := doc.Filter(tt.prefixes)
			if !reflect.DeepEqual(removed, tt.wantRemoved) {
				t.Errorf("removed = %v, want %v", removed, tt.wantRemoved)
			}
			if got := doc.Paths(); !reflect.DeepEqual(got, tt.wantKept) {
				t.Errorf("kept = %v, want %v", got, tt.wantKept)
			}
		})
	}
}

// TestOperations tests operation counting for both languages.
func TestOperations(t *testing.T) {
	t.Parallel()

	t.Run("swagger", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, swaggerDoc)
		n, err := doc.Operations()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 4 {
			t.Errorf("expected 4 operations, got %d", n)
		}

		doc.Filter([]string{"/v1/account"})
		n, err = doc.Operations()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 operation after filtering, got %d", n)
		}
	})

	t.Run("openapi", func(t *testing.T) {
		t.Parallel()

		n, err := mustParse(t, openAPIDoc).Operations()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 operations, got %d", n)
		}
	})

	t.Run("nil document counts zero", func(t *testing.T) {
		t.Parallel()

		if n := CountOperations(nil); n != 0 {
			t.Errorf("expected 0, got %d", n)
		}
	})
}

// TestValidate tests kin-openapi validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	if err := mustParse(t, openAPIDoc).Validate(t.Context()); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}

	noInfo := mustParse(t, `{"openapi":"3.0.3","paths":{}}`)
	if err := noInfo.Validate(t.Context()); err == nil {
		t.Error("expected error for document without info")
	}
}

// TestMarshal tests both output formats.
func TestMarshal(t *testing.T) {
	t.Parallel()

	t.Run("json is indented", func(t *testing.T) {
		t.Parallel()

		data, err := mustParse(t, swaggerDoc).Marshal(FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n    \"info\"") {
			t.Errorf("expected four-space indentation:\n%s", data)
		}
	})

	t.Run("yaml round-trips through kin-openapi", func(t *testing.T) {
		t.Parallel()

		data, err := mustParse(t, swaggerDoc).Marshal(FormatYAML)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "swagger:") {
			t.Errorf("expected YAML output:\n%s", data)
		}

		again := mustParse(t, string(data))
		n, err := again.Operations()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 4 {
			t.Errorf("expected 4 operations after round-trip, got %d", n)
		}
	})

	t.Run("openapi yaml response codes survive as json", func(t *testing.T) {
		t.Parallel()

		data, err := mustParse(t, openAPIDoc).Marshal(FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `"204"`) {
			t.Errorf("expected response code key in JSON:\n%s", data)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := mustParse(t, swaggerDoc).Marshal("xml"); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

// TestWriteFile tests filtered writes.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "swagger-doc-dm-api-account.json")

	res, err := WriteFile(path, FormatJSON, mustParse(t, swaggerDoc), []string{"/v1/account"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read spec file: %v", err)
	}
	if strings.Contains(string(data), "/v1/account") {
		t.Errorf("expected ignored paths to be removed:\n%s", data)
	}
	if !strings.Contains(string(data), "/v1/forum") {
		t.Errorf("expected other paths to be kept:\n%s", data)
	}
	if len(res.Removed) != 2 {
		t.Errorf("expected 2 removed paths, got %v", res.Removed)
	}
	if res.Digest != Digest(data) {
		t.Errorf("digest mismatch: %s", res.Digest)
	}
}

// TestDigest tests the SHA3-256 digest.
func TestDigest(t *testing.T) {
	t.Parallel()

	// SHA3-256 of the empty input.
	const empty = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
	if got := Digest(nil); got != empty {
		t.Errorf("expected %s, got %s", empty, got)
	}
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Error("expected different digests")
	}
}

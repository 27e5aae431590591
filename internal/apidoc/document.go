package apidoc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"
)

// Kind identifies the description language of a document.
type Kind string

const (
	// KindSwagger2 is a Swagger 2.0 document.
	KindSwagger2 Kind = "swagger"

	// KindOpenAPI3 is an OpenAPI 3.x document.
	KindOpenAPI3 Kind = "openapi"

	// KindUnknown is a document without a supported version field. Its
	// paths can be filtered and written but not validated or counted.
	KindUnknown Kind = ""
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	swagger2Constraint = mustConstraint("~2.0")
	openAPI3Constraint = mustConstraint(">= 3.0.0-0, < 4.0.0-0")
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Document is a parsed API description. Numbers are kept as json.Number
// so that integers beyond float64 precision are written back unchanged.
type Document struct {
	raw        map[string]any
	kind       Kind
	version    *semver.Version
	versionErr error
}

// Parse reads a JSON or YAML API description. A document without a
// supported swagger or openapi version still parses; its Kind is
// KindUnknown and VersionError reports why.
func Parse(data []byte) (*Document, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		raw, err = decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	if raw == nil {
		return nil, ErrInvalidDocument
	}

	doc := &Document{raw: raw}
	doc.kind, doc.version, doc.versionErr = detectVersion(raw)
	return doc, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return raw, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	v, err := fromYAML(root.Content[0])
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is a %T, not a mapping", v)
	}
	return raw, nil
}

// fromYAML converts a YAML node into the same tree decodeJSON produces.
// Integer and float scalars written as plain JSON numbers become
// json.Number; every mapping key is a string.
func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				if err := mergeYAML(out, value); err != nil {
					return nil, err
				}
				continue
			}
			v, err := fromYAML(value)
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil
	default:
		switch n.ShortTag() {
		case "!!int", "!!float":
			if isJSONNumber(n.Value) {
				return json.Number(n.Value), nil
			}
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// mergeYAML applies a "<<" merge value to out without overriding keys
// already set.
func mergeYAML(out map[string]any, n *yaml.Node) error {
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, src := range sources {
		v, err := fromYAML(src)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("merge value is a %T, not a mapping", v)
		}
		for k, child := range m {
			if _, exists := out[k]; !exists {
				out[k] = child
			}
		}
	}
	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

func detectVersion(raw map[string]any) (Kind, *semver.Version, error) {
	for _, kind := range []Kind{KindSwagger2, KindOpenAPI3} {
		field, ok := raw[string(kind)]
		if !ok {
			continue
		}
		s := fmt.Sprint(field)
		v, err := semver.NewVersion(s)
		if err != nil {
			return KindUnknown, nil, fmt.Errorf("%w: %s %q", ErrUnsupportedVersion, kind, s)
		}
		switch {
		case kind == KindSwagger2 && swagger2Constraint.Check(v):
			return kind, v, nil
		case kind == KindOpenAPI3 && openAPI3Constraint.Check(v):
			return kind, v, nil
		}
		return KindUnknown, nil, fmt.Errorf("%w: %s %s", ErrUnsupportedVersion, kind, s)
	}
	return KindUnknown, nil, fmt.Errorf("%w: no swagger or openapi field", ErrUnsupportedVersion)
}

// Kind returns the description language.
func (d *Document) Kind() Kind {
	return d.kind
}

// Version returns the declared description version, empty for KindUnknown.
func (d *Document) Version() string {
	if d.version == nil {
		return ""
	}
	return d.version.Original()
}

// VersionError returns why the document's kind is unknown, or nil.
func (d *Document) VersionError() error {
	return d.versionErr
}

// Paths returns the path keys in sorted order.
func (d *Document) Paths() []string {
	paths := d.pathsMap()
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Document) pathsMap() map[string]any {
	paths, _ := d.raw["paths"].(map[string]any) //nolint:errcheck // a missing paths object is empty
	return paths
}

// Filter removes every path whose key starts with one of the prefixes and
// returns the removed keys in sorted order.
func (d *Document) Filter(prefixes []string) []string {
	paths := d.pathsMap()
	var removed []string
	for key := range paths {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				removed = append(removed, key)
				delete(paths, key)
				break
			}
		}
	}
	sort.Strings(removed)
	return removed
}

// OpenAPI builds the kin-openapi model. Swagger 2.0 documents are converted
// to OpenAPI 3.
func (d *Document) OpenAPI() (*openapi3.T, error) {
	if d.versionErr != nil {
		return nil, d.versionErr
	}

	data, err := json.Marshal(d.raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode API description: %w", err)
	}

	if d.kind == KindSwagger2 {
		var doc2 openapi2.T
		if err := json.Unmarshal(data, &doc2); err != nil {
			return nil, fmt.Errorf("failed to load swagger document: %w", err)
		}
		doc3, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert swagger document: %w", err)
		}
		return doc3, nil
	}

	doc3, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return doc3, nil
}

// Validate checks the document against the OpenAPI rules of kin-openapi.
func (d *Document) Validate(ctx context.Context) error {
	doc3, err := d.OpenAPI()
	if err != nil {
		return err
	}
	if err := doc3.Validate(ctx); err != nil {
		return fmt.Errorf("invalid %s %s document: %w", d.kind, d.Version(), err)
	}
	return nil
}

// Operations counts the operations declared under paths.
func (d *Document) Operations() (int, error) {
	doc3, err := d.OpenAPI()
	if err != nil {
		return 0, err
	}
	return CountOperations(doc3), nil
}

// CountOperations counts the operations of an OpenAPI 3 document.
func CountOperations(doc *openapi3.T) int {
	if doc == nil || doc.Paths == nil {
		return 0
	}
	n := 0
	for _, item := range doc.Paths.Map() {
		n += len(item.Operations())
	}
	return n
}

// Marshal encodes the document as indented JSON or YAML.
func (d *Document) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(d.raw); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toYAML(d.raw)); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// toYAML copies v with every json.Number replaced by a scalar node holding
// the literal, so the YAML encoder does not round it through float64.
func toYAML(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = toYAML(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = toYAML(child)
		}
		return out
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(node), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(node)}
	default:
		return v
	}
}

// Digest returns the hex SHA3-256 digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

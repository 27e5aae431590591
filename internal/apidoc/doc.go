// Package apidoc parses, filters and writes API description documents.
//
// A Document keeps the fetched description as a generic tree so nothing
// the service returned is lost when ignored paths are removed. Swagger 2.0
// and OpenAPI 3.x documents are recognized by their version field; the
// typed kin-openapi model is only built to validate the document and count
// its operations.
package apidoc

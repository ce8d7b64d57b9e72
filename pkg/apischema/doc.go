// Package apischema exposes the public contracts for loading and parsing the
// hosting API's schema document. Downstream packages consume the Operation and
// Schema wrappers defined here; the kin-openapi machinery stays hidden behind
// internal/openapi so it never leaks into consumer code.
package apischema

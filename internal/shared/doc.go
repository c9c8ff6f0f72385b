// Package shared holds code used by several layers without belonging to any
// of them. Its testutil subpackage provides captured loggers and dataset
// fixtures for tests; it is never imported by production code.
package shared

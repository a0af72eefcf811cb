// internal/bptree/version.go
package bptree

// Version mirrors the source's VERSION macro: the algorithm version,
// not a semantic version for this module.
const Version = "0.1"

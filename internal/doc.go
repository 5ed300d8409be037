// Package internal holds the randomness and digest primitives shared by the
// authgate engine: session identifier generation, numeric code generation,
// and the SHA-256 digest encoding used for at-rest code storage. Nothing in
// this package performs I/O.
package internal

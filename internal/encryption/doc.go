// Package encryption processes files with the composite schemes from
// pkg/crypto or with deterministic AES-SIV, wrapping each output in a
// small self-describing envelope. Files are handled concurrently with
// atomic writes.
package encryption

// Package crypto composes authenticated encryption schemes from block,
// stream and AEAD cipher engines behind a single Encrypt/Decrypt surface.
//
// Two families of composite schemes are supported: AES-CBC with a truncated
// HMAC tag (encrypt-then-MAC, per the AEAD-AES-CBC-HMAC-SHA2 draft) and
// native AES-GCM. Lower-level building blocks — the engine registry,
// the cipher adapters and the block splitter — are exported for callers
// that assemble their own constructions.
package crypto

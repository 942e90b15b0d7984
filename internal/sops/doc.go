// Package sops wraps the external SOPS encryptor for batch operations
// over directories. File selection is driven by the config's extension
// and exact-filename rules; the encryption transform itself is entirely
// delegated to the sops subprocess. Batch encrypt/decrypt runs files
// through a bounded worker pool and keeps going past per-file failures.
//
// Encrypting the vault root also maintains a fenced block in the vault's
// .gitignore covering every configured plaintext pattern.
package sops

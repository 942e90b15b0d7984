// Package vault implements the project-vault binding: vault creation,
// the managed section inside dot.envrc, the binding invariant, and the
// dotfile neutralisation rule used for files stored in the vault.
//
// A project is bound to a vault iff three filesystem facts hold at once:
// the project's .envrc is a symlink resolving to the vault's dot.envrc,
// dot.envrc contains exactly one well-formed managed section, and the
// section's sentinel equals the suffix of the vault directory name. The
// binding is a computed property, not stored state; every operation
// verifies it before touching anything.
package vault

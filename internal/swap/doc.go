// Package swap implements the per-file, per-host swap state machine:
// temporarily overlaying a vault-held alternate version onto a project
// file while preserving the original.
//
// State is encoded entirely on disk. For a managed path P the vault's
// swap tree holds the alternate version at swap/P, the backed-up project
// original at swap/P.rsenv_original while IN, and a zero-byte sentinel
// P@@<host>@@rsenv_active naming the host that swapped in. At most one
// host may hold IN at a time; a sentinel from a different host blocks a
// swap-in unless forced. The legacy sentinel form P.<host>.rsenv_active
// is accepted on read and upgraded on first touch.
package swap

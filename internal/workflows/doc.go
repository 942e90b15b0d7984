// Package workflows orchestrates multi-engine operations: init, reset,
// reconnect, and info each drive the vault binder, and reset and info
// also combine it with the guard and swap engines. Commands call these entry points; single-engine
// operations go straight to the engine packages.
package workflows

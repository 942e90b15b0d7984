// Package utils provides small host and path helpers shared across
// the rsenv engines and commands.
package utils

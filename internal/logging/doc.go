// Package logger provides leveled terminal logging for rsenv commands.
//
// Output is controlled by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only errors and critical warnings are shown.
//
// Commands create a logger in their PersistentPreRun and pass it to the
// engines they drive:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Debugf("resolved vault at %s", vaultPath)
package logger

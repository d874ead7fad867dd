package cmd

import (
	"fmt"
	"strings"
)

// exitError is returned once a command has already reported its failure.
// main exits with code without printing anything else.
type exitError struct{ code int }

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	if ee, ok := err.(exitError); ok {
		return ee.code
	}
	return -1
}

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns guidance for a ledger held by another process.
func diagnoseDBLock(path string) string {
	return fmt.Sprintf("build ledger %s is locked by another process\n"+
		"  → is 'atlaspack watch' running in this project?\n"+
		"  → find the process:  ps aux | grep 'atlaspack'\n"+
		"  → or skip the ledger: --no-ledger", path)
}

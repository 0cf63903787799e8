package main

import (
	"fmt"
	"os"
)

// Exit codes. Any error aborts the run; the error is surfaced verbatim on
// stderr so the operator can diagnose and rerun.
const (
	ExitSuccess = 0
	ExitError   = 1
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}

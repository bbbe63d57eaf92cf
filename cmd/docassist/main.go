// docassist is a document assistant CLI: intent triage routed to tool calling agents.
//
// Usage:
//
//	docassist ask <question>   Answer a single request in a fresh session
//	docassist chat             Interactive session, /exit to quit
//	docassist tools            List the tool definitions offered to the model
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bububa/docassist/session"
)

func printTurn(w io.Writer, state *session.State, verbose bool) {
	answer := state.CurrentResponse
	if answer == nil {
		fmt.Fprintf(w, "No agent handled this request (next step: %s)\n", state.NextStep)
		return
	}
	fmt.Fprintln(w, answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Fprintf(w, "\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	if !verbose {
		return
	}
	if state.Intent != nil {
		fmt.Fprintf(w, "Intent:  %s (%.2f) %s\n", state.Intent.IntentType, state.Intent.Confidence, state.Intent.Reasoning)
	}
	fmt.Fprintf(w, "Confidence: %.2f\n", answer.Confidence)
	fmt.Fprintf(w, "Actions: %s\n", strings.Join(state.ActionsTaken, " -> "))
	if len(state.ToolsUsed) > 0 {
		fmt.Fprintf(w, "Tools:   %s\n", strings.Join(state.ToolsUsed, ", "))
	}
	fmt.Fprintf(w, "Tokens:  %d in / %d out\n", state.Usage.InputTokens, state.Usage.OutputTokens)
}

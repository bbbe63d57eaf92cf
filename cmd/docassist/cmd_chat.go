package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatFlags struct {
	user    string
	session string
	summary string
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session, type /exit to quit",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatFlags.user, "user", "cli", "user id recorded in the session")
	f.StringVar(&chatFlags.session, "session", "", "resume an existing session id (needs a shared store)")
	f.StringVar(&chatFlags.summary, "summary", "", "initial conversation summary")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := chatFlags.session
	if sessionID == "" {
		sess, err := a.router.NewSession(ctx, chatFlags.user)
		if err != nil {
			return err
		}
		sessionID = sess.SessionID
	} else if _, err := a.router.Session(ctx, sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	if chatFlags.summary != "" {
		if err := a.router.SetConversationSummary(ctx, sessionID, chatFlags.summary); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s. Type /exit to quit.\n", sessionID)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/stats":
			stats := a.router.Stats()
			fmt.Fprintf(out, "turns=%d failed=%d exhausted=%d\n", stats.Turns, stats.Failed, stats.Exhausted)
			continue
		}
		state, err := a.router.HandleTurn(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		printTurn(out, state, rootFlags.verbose)
	}
	return scanner.Err()
}

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var askFlags struct {
	user string
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single request in a fresh session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askFlags.user, "user", "cli", "user id recorded in the session")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.router.NewSession(ctx, askFlags.user)
	if err != nil {
		return err
	}
	state, err := a.router.HandleTurn(ctx, sess.SessionID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printTurn(cmd.OutOrStdout(), state, rootFlags.verbose)
	return nil
}

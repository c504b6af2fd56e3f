package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage registered users",
	}
	userCmd.AddCommand(&cobra.Command{
		Use:   "register <user-id>",
		Short: "Register a user id",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserRegister,
	})
	RootCmd.AddCommand(userCmd)
}

func runUserRegister(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Engine.RegisterUser(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", args[0])
	return nil
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the projects and users tables",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Mysql.Migrate(a.ProjectMd, a.UserMd); err != nil {
		return err
	}
	a.Logger.Info(context.Background(), "Migration completed")
	return nil
}

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/joshcarp/workitems-mcp/pkg/credential"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved personal access token",
	Long: `Remove the personal access token saved with 'workitems login'.

Example:
  workitems logout --organization contoso`,
	RunE: runLogout,
}

var logoutOrganization string

func init() {
	logoutCmd.Flags().StringVar(&logoutOrganization, "organization", "", "Azure DevOps organization (defaults to the configured one)")
}

func runLogout(cmd *cobra.Command, args []string) error {
	org, err := organizationFor(logoutOrganization)
	if err != nil {
		return err
	}

	store, err := credential.Open("")
	if err != nil {
		return err
	}

	if _, err := store.Load(org); err != nil {
		if errors.Is(err, credential.ErrNotLoggedIn) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		return err
	}

	if err := store.Delete(org); err != nil {
		return errors.Wrap(err, "failed to delete credentials")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged out from %s\n", org)
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/joshcarp/workitems-mcp/pkg/credential"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save an Azure DevOps personal access token",
	Long: `Save a personal access token in the OS keyring.

The token needs the "Work Items (Read & write)" scope. It is stored per
organization and used whenever AZURE_DEVOPS_ACCESS_TOKEN and the config file
do not provide one. Without --token the token is read from stdin.

Example:
  workitems login --organization contoso
  echo "$PAT" | workitems login --organization contoso`,
	RunE: runLogin,
}

var (
	loginOrganization string
	loginToken        string
)

func init() {
	loginCmd.Flags().StringVar(&loginOrganization, "organization", "", "Azure DevOps organization (defaults to the configured one)")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "personal access token")
}

func runLogin(cmd *cobra.Command, args []string) error {
	org, err := organizationFor(loginOrganization)
	if err != nil {
		return err
	}

	token := strings.TrimSpace(loginToken)
	if token == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Personal access token for %s: ", org)
		token, err = readToken(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	store, err := credential.Open("")
	if err != nil {
		return err
	}
	if err := store.Save(&credential.Credentials{Organization: org, Token: token}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Token saved for organization %s\n", org)
	return nil
}

// organizationFor returns flagValue, or the configured organization when the
// flag was not set.
func organizationFor(flagValue string) (string, error) {
	if org := strings.TrimSpace(flagValue); org != "" {
		return org, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Organization == "" {
		return "", errors.New("no organization: pass --organization or set AZURE_DEVOPS_ORGANIZATION")
	}
	return cfg.Organization, nil
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read token")
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

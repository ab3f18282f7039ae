package main

import (
	"fmt"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
)

const (
	appName        = "dto-generator"
	appDescription = "Bidirectional conversion synthesis for domain and wire types"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "prints build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), buildVersion(version, commit, date, builtBy, treeState).String())
			return err
		},
	}
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, ""),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}

			if version != "" {
				i.GitVersion = version
			}

			if treeState != "" {
				i.GitTreeState = treeState
			}

			if date != "" {
				i.BuildDate = date
			}

			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dto-generator/internal/plan"
)

func newPlanCmd() *cobra.Command {
	in := &inputFlags{}

	var format string

	cmd := &cobra.Command{
		Use:   "plan (-f file | --pkg pattern) [--format text|yaml|json]",
		Short: "prints the transform plan of every type",
		Long: `Plan prints, per type and direction, the ordered operations that convert
each field or arm. Types that fail planning are reported and the command
exits non-zero; the other types are still printed.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := in.load(cmd.Context())
			if err != nil {
				return err
			}

			b, err := in.plan(cmd.Context(), set)
			if err != nil {
				return err
			}

			out, err := b.Export(format)
			if err != nil {
				return err
			}

			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return fmt.Errorf("writing plan: %w", err)
			}

			return failure(b)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&format, "format", plan.FormatText, "Output format: text, yaml or json")

	return cmd
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dto-generator/internal/gen"
)

func newGenCmd() *cobra.Command {
	in := &inputFlags{}
	cfg := gen.DefaultGeneratorConfig()

	var noComments bool

	cmd := &cobra.Command{
		Use:   "gen (-f file | --pkg pattern) -o dir",
		Short: "generates conversion functions",
		Long: `Gen renders a <Type>ToExternal and/or <Type>FromExternal function for every
planned type, one file per type, plus a helpers file. Types that fail
planning or rendering are skipped, as are the types that use them, and the
command exits non-zero after writing the rest.
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

			logDiagnostics(b.Diagnostics)

			if !cmd.Flags().Changed("package") && set.Package != "" {
				cfg.PackageName = set.Package
			}

			cfg.GenerateComments = !noComments

			files, genErr := gen.NewGenerator(cfg).Generate(b, set.Imports)

			written, err := gen.WriteFiles(files, cfg.OutputDir)
			if err != nil {
				return err
			}

			for _, p := range written {
				slog.Info("Wrote file", "path", p)
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			if genErr != nil {
				return genErr
			}

			return failure(b)
		},
	}

	in.register(cmd)

	fs := cmd.Flags()
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Output directory")
	fs.StringVar(&cfg.PackageName, "package", cfg.PackageName,
		"Package name of the generated files (defaults to the descriptor package)")
	fs.StringVar(&cfg.HelpersFilename, "helpers", cfg.HelpersFilename, "File name of the shared helpers")
	fs.BoolVar(&noComments, "no-comments", false, "Omit doc comments on generated functions")

	return cmd
}

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Local overrides; absence of a .env file is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "rlstudio",
		Short: "Spec-driven RL environment authoring core",
	}

	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var envType string
	var out string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a default environment spec for a topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runNew(args[0], envType, out)
		},
	}

	cmd.Flags().StringVarP(&envType, "type", "t", "grid", "environment topology: grid | continuous2d | custom2d")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output spec file (default: <name>.yaml)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [spec-file]",
		Short: "Validate an environment spec and run the advisory checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func convertCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "convert [spec-file]",
		Short: "Convert a spec into its scene graph and RL config pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output scene file (default: stdout)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "restore [scene-file]",
		Short: "Recover an environment spec from a stored scene document",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRestore(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output spec file (default: stdout)")
	return cmd
}

func migrateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "migrate [legacy-file]",
		Short: "Migrate a legacy grid document into a spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMigrate(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output spec file (default: stdout)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [spec-file]",
		Short: "Compute and display environment statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runStats(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [spec-file]",
		Short: "Start the local editor preview server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(args[0], port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default: from config)")
	return cmd
}

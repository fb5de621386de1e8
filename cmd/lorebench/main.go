package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lorebench/internal/cli"
	"lorebench/internal/config"
	"lorebench/internal/keybinds"
	"lorebench/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lorebench",
	Short: "Lorebench - game content workbench",
	Long: `Lorebench is a terminal workbench for a game's content set: lua scripts,
quests, projectiles, property bags and design notes.

Run without arguments to open the interactive editor. The workspace is the
directory holding the content tree (scripts/, quests/, projectiles/,
properties/, notes/); it defaults to the last one used.

Examples:
  lorebench                            # Open the editor
  lorebench -w ~/games/rpg/content     # Open a specific workspace
  lorebench validate                   # Check every document headlessly
  lorebench export -o bundle.yaml      # Bundle the workspace for the build
  lorebench edits --mode script        # Show recent script edits
  lorebench keybinds                   # Write a starter keybinds file`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(flagWorkspace)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate every document in the workspace",
	Long: `Validate parses every script, quest, projectile, property bag and note in
the workspace and prints the findings. Exits non-zero when any exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		opts := cli.ValidateOptions{
			Workspace: workspaceArg(args),
			Format:    flagFormat,
		}
		return cli.Validate(opts)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Bundle the workspace into a single file",
	Long: `Export collects every workspace document into one yaml or json bundle,
written to stdout or to the file given with -o.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		opts := cli.ExportOptions{
			Workspace:  workspaceArg(args),
			OutputPath: flagOutput,
			Format:     flagFormat,
		}
		return cli.Export(opts)
	},
}

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Show or clear the recorded edit history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		opts := cli.EditsOptions{
			Mode:  flagEditsMode,
			Limit: flagEditsLimit,
			Clear: flagEditsClear,
			Yes:   flagEditsYes,
		}
		return cli.Edits(opts)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Write a starter keybinds config with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		path := config.GetKeybindsFilePath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("keybinds file already exists: %s", path)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote default keybinds to %s\n", path)
		return nil
	},
}

var (
	flagWorkspace  string
	flagOutput     string
	flagFormat     string
	flagEditsMode  string
	flagEditsLimit int
	flagEditsClear bool
	flagEditsYes   bool
)

// workspaceArg prefers the positional directory over the -w flag
func workspaceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return flagWorkspace
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagWorkspace, "workspace", "w", "", "Workspace directory")

	validateCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format (text/json)")

	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (defaults to stdout)")
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "yaml", "Output format (yaml/json)")

	editsCmd.Flags().StringVar(&flagEditsMode, "mode", "", "Filter by panel mode (script/property/note/projectile/quest)")
	editsCmd.Flags().IntVar(&flagEditsLimit, "limit", 50, "Maximum entries to show")
	editsCmd.Flags().BoolVar(&flagEditsClear, "clear", false, "Clear the edit history")
	editsCmd.Flags().BoolVarP(&flagEditsYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(editsCmd)
	rootCmd.AddCommand(keybindsCmd)
}

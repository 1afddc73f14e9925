package cmd

import (
	"fmt"
	"os"

	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/lcars-computer/stackctl/internal/wizard"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a stackctl.yml config file interactively",
	Long: `Look for the stack's docker directory and compose file, then write
stackctl.yml through an interactive wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "stackctl.yml"

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s already exists.\n", configPath)
		fmt.Print("Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)
	if !detection.DockerAvailable {
		ui.Warn("docker not found in PATH; container scans and deployment will not work")
	}

	answers, err := wizard.RunInit(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("stackctl configure --detect --interactive"))
	fmt.Printf("           %s\n", ui.Hint("or edit stackctl.yml to fine-tune your config"))

	return nil
}

package cmd

import (
	"fmt"

	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var generateDryRun bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write docker/.env and docker-compose.override.yml",
	Long: `Re-validate the saved configuration, then write the env overlay and the
compose override document. Both files are replaced together or not at all.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print both documents instead of writing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	g := s.generator(ctx)

	if generateDryRun {
		a, err := g.Plan(s.deployment)
		if err != nil {
			return err
		}
		fmt.Println(ui.Hint("# " + s.cfg.EnvFile()))
		fmt.Print(string(a.Env))
		fmt.Println()
		fmt.Println(ui.Hint("# " + s.cfg.OverrideFile()))
		fmt.Print(string(a.Override))
		return nil
	}

	fmt.Println(ui.Bold("Validating services..."))
	results := s.validator().ValidateAll(ctx, s.deployment)
	if err := printValidation(results); err != nil {
		return err
	}
	g.Validator = cachedResults(results)

	if _, err := g.Generate(ctx, s.deployment); err != nil {
		return err
	}

	fmt.Println()
	ui.Success(fmt.Sprintf("Generated %s and %s (%d existing, %d fresh)",
		s.cfg.EnvFile(), s.cfg.OverrideFile(),
		len(s.deployment.Existing()), len(s.deployment.Services())-len(s.deployment.Existing())))
	return nil
}

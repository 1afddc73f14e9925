package cmd

import (
	"fmt"

	"github.com/lcars-computer/stackctl/internal/state"
	"github.com/lcars-computer/stackctl/internal/ui"
	"github.com/spf13/cobra"
)

var validateSave bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every service of the saved configuration",
	Long: `Check hostnames, ports and allowed modes for every service and probe each
existing endpoint. A forced endpoint that fails its probe is reported but stays
valid. Nothing is written unless --save is given.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "save the configuration when every service validates")
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	fmt.Println(ui.Bold("Validating services..."))
	results := s.validator().ValidateAll(commandContext(cmd), s.deployment)
	verr := printValidation(results)

	fmt.Println()
	invalid := len(results.Invalid())
	if invalid == 0 {
		ui.Success(fmt.Sprintf("%d services valid, 0 errors", len(results)))
	} else {
		fmt.Printf("%d services valid, %d errors\n", len(results)-invalid, invalid)
	}

	if validateSave && verr == nil {
		if err := state.Save(s.deployment, s.cfg.StateFile()); err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("Saved %s", s.cfg.StateFile()))
	}
	return verr
}

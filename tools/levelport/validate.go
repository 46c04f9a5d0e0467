package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/levelport/level/integrity"
	"github.com/mogaika/levelport/level/merge"
	"github.com/mogaika/levelport/level/wadio"
)

var repairedFile string

var validateCmd = &cobra.Command{
	Use:   "validate CONTAINER",
	Short: "Check a container and optionally save the repaired copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		plan, err := merge.PlanFromConfig(e.cfg)
		if err != nil {
			return err
		}
		c, err := wadio.LoadFile(args[0])
		if err != nil {
			return err
		}

		r := integrity.ValidateAndRepair(c, integrity.Options{
			Namespaces:  plan.Namespaces,
			SharedFloor: plan.SharedFloor,
		}, e.log)
		if err := yaml.NewEncoder(os.Stdout).Encode(r); err != nil {
			return err
		}

		if repairedFile == "" {
			if r.Repaired() {
				e.status.Warn("%s needs repairs, rerun with --out to save them", c.Name)
			}
			return nil
		}
		return wadio.SaveFile(repairedFile, c)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&repairedFile, "out", "o", "", "save the repaired container here")
	rootCmd.AddCommand(validateCmd)
}

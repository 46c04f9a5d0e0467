package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/levelport/level/merge"
	"github.com/mogaika/levelport/level/wadio"
)

var reportFile string

var mergeCmd = &cobra.Command{
	Use:   "merge SOURCE DESTINATION OUTPUT",
	Short: "Import source level objects into destination and save the result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		plan, err := merge.PlanFromConfig(e.cfg)
		if err != nil {
			return errors.Wrap(err, "config")
		}

		src, err := wadio.LoadFile(args[0])
		if err != nil {
			return err
		}
		dst, err := wadio.LoadFile(args[1])
		if err != nil {
			return err
		}
		e.log.Debug("loaded", zap.Stringer("source", src), zap.Stringer("destination", dst))

		sum, err := merge.Migrate(src, dst, plan, e.log, e.status)
		if err != nil {
			return err
		}
		if err := wadio.SaveFile(args[2], dst); err != nil {
			return err
		}

		path := reportFile
		if path == "" {
			path = e.cfg.Merge.Report
		}
		if path != "" {
			if err := writeReport(path, sum); err != nil {
				return err
			}
			e.log.Info("report written", zap.String("path", path))
		}

		for _, cs := range sum.Classes {
			if cs.Error != "" {
				e.status.Warn("%v: %s", cs.Class, cs.Error)
				continue
			}
			e.status.Info("%v: %d models, %d instances, %d rejected",
				cs.Class, cs.Models, cs.Instances, cs.Rejections.Total())
		}
		return nil
	},
}

func writeReport(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Can't create report %q", path)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return errors.Wrapf(err, "Can't write report %q", path)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	mergeCmd.Flags().StringVarP(&reportFile, "report", "r", "", "yaml run report path, overrides merge.report")
	rootCmd.AddCommand(mergeCmd)
}

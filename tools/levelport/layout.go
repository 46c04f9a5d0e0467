package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/layout"
	"github.com/mogaika/levelport/level/wadio"
)

var layoutCmd = &cobra.Command{
	Use:   "layout CONTAINER OUTPUT",
	Short: "Regenerate the index tables of every class",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.log.Sync()

		c, err := wadio.LoadFile(args[0])
		if err != nil {
			return err
		}
		for _, cl := range level.Classes {
			l, err := layout.Apply(c.Class(cl))
			if err != nil {
				return err
			}
			if l.Orphans != 0 {
				e.status.Warn("%v: %d instances reference missing models", cl, l.Orphans)
			}
			e.log.Debug("layout", zap.Stringer("class", cl),
				zap.Int("records", len(l.Instances)), zap.Int("index_bytes", len(l.IndexRaw)))
		}
		return wadio.SaveFile(args[1], c)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}

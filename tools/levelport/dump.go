package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/level/wadio"
	"github.com/mogaika/levelport/utils"
)

var (
	dumpTags  bool
	dumpClass string
)

var dumpCmd = &cobra.Command{
	Use:   "dump CONTAINER",
	Short: "Print container contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}
		if dumpTags {
			return printTags(args[0])
		}

		c, err := wadio.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Println(c)
		if dumpClass == "" {
			return nil
		}
		cl, err := level.ParseClass(dumpClass)
		if err != nil {
			return err
		}
		cd := c.Class(cl)
		utils.FDump(os.Stdout, cd.Models, cd.Instances, cd.Index)
		return nil
	},
}

func printTags(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tags, err := wadio.ReadTags(f)
	if err != nil {
		return err
	}
	for i, t := range tags {
		head := t.Data
		if len(head) > 16 {
			head = head[:16]
		}
		fmt.Printf("%4d tag %.4x flags %.4x size %8x %-24q %s\n",
			i, t.Tag, t.Flags, len(t.Data), t.Name, utils.DumpToOneLineString(head))
	}
	return nil
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpTags, "tags", false, "list raw tags instead of parsing")
	dumpCmd.Flags().StringVar(&dumpClass, "class", "", "spew dump one class: static, placeable, terrain, volume")
	rootCmd.AddCommand(dumpCmd)
}

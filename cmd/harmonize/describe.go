package main

import (
	"fmt"
	"strings"

	"github.com/carbocation/harmonize/summary"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print row, patient and missingness counts for every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDataset()
		if err != nil {
			return err
		}

		fmt.Println(strings.Join(summary.Header(), "\t"))
		for _, name := range d.Tables() {
			t, err := d.Load(name)
			if err != nil {
				return err
			}
			s, err := summary.Describe(t)
			if err != nil {
				return err
			}
			fmt.Println(s)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

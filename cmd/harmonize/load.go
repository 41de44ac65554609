package main

import (
	"github.com/carbocation/harmonize/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build one canonical table and write it as TSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDataset()
		if err != nil {
			return err
		}

		t, err := d.Load(viper.GetString("load.table"))
		if err != nil {
			return err
		}

		w, err := output(viper.GetString("load.out"))
		if err != nil {
			return err
		}
		defer w.Close()

		return table.WriteTSV(w, t)
	},
}

func init() {
	loadCmd.Flags().String("table", "", "Name of the table to build, e.g. proteomics")
	loadCmd.Flags().String("out", "", "Output file. Defaults to stdout")
	loadCmd.MarkFlagRequired("table")
	viper.BindPFlag("load.table", loadCmd.Flags().Lookup("table"))
	viper.BindPFlag("load.out", loadCmd.Flags().Lookup("out"))

	rootCmd.AddCommand(loadCmd)
}

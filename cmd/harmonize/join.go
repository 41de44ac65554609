package main

import (
	"fmt"

	"github.com/carbocation/harmonize/join"
	"github.com/carbocation/harmonize/table"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join canonical tables on Patient_ID, in the order given",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := viper.GetStringSlice("join.tables")
		tag := viper.GetBool("join.tag")

		if len(names) < 2 {
			return pfx.Err(fmt.Errorf("join needs at least two --tables"))
		}

		how, err := join.ParseHow(viper.GetString("join.how"))
		if err != nil {
			return err
		}

		d, err := openDataset()
		if err != nil {
			return err
		}

		var steps []join.Step
		var first *table.Table
		for i, name := range names {
			t, err := d.Load(name)
			if err != nil {
				return err
			}
			if tag && t.Category == table.Omics {
				if t, err = t.Tag(); err != nil {
					return err
				}
			}
			if i == 0 {
				first = t
				continue
			}
			steps = append(steps, join.Step{Table: t, How: how})
		}

		joined, err := join.Chain(first, steps...)
		if err != nil {
			return err
		}
		log.Printf("Joined %d tables: %d rows, %d columns\n", len(names), joined.NRows(), joined.NCols())

		w, err := output(viper.GetString("join.out"))
		if err != nil {
			return err
		}
		defer w.Close()

		return table.WriteTSV(w, joined)
	},
}

func init() {
	joinCmd.Flags().StringSlice("tables", nil, "Comma-separated table names, joined left to right")
	joinCmd.Flags().String("how", "auto", "Join type: auto, inner or left")
	joinCmd.Flags().Bool("tag", false, "Suffix omics column names with their table name")
	joinCmd.Flags().String("out", "", "Output file. Defaults to stdout")
	viper.BindPFlag("join.tables", joinCmd.Flags().Lookup("tables"))
	viper.BindPFlag("join.how", joinCmd.Flags().Lookup("how"))
	viper.BindPFlag("join.tag", joinCmd.Flags().Lookup("tag"))
	viper.BindPFlag("join.out", joinCmd.Flags().Lookup("out"))

	rootCmd.AddCommand(joinCmd)
}

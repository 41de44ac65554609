package main

import (
	"fmt"
	"io"
	"os"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/config"
	"github.com/carbocation/harmonize/dataset"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "harmonize",
	Short: "Canonicalize and join multi-source omics tables by Patient_ID",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML description of the source (cancer, mapping, tables)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log table builds and dropped records")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func openDataset() (*dataset.Dataset, error) {
	path := viper.GetString("config")
	if path == "" {
		return nil, pfx.Err(fmt.Errorf("--config is required"))
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log.Printf("Opening %s/%s version %s\n", c.Source, c.Cancer, c.Version)
	return c.Open()
}

// output returns stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(harmonize.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avitk/texweld/internal/pipeline"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack",
	Short: "Split packed DDS textures back into PNG images",
	Long: `Unpack decodes every DDS file in a directory and writes the color
channels of each as a PNG. Textures whose alpha channel carries packed
data (height, specular, depth) additionally get a grayscale _alpha PNG.`,
	RunE: runUnpack,
}

func init() {
	rootCmd.AddCommand(unpackCmd)

	unpackCmd.Flags().StringP("input", "i", ".", "Directory containing the DDS textures")
	unpackCmd.Flags().StringP("output", "o", "", "Output directory (default {input}/output)")
	unpackCmd.Flags().StringP("name", "n", "", "Filename prefix for the written images")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"unpack.input", "input"},
		{"unpack.output", "output"},
		{"unpack.name", "name"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, unpackCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runUnpack(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	opts := pipeline.Options{
		InputDir:  viper.GetString("unpack.input"),
		OutputDir: viper.GetString("unpack.output"),
		Name:      viper.GetString("unpack.name"),
	}

	result, err := pipeline.Unpack(opts)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	logger.Info("unpack complete", "written", len(result.Written))
	return nil
}

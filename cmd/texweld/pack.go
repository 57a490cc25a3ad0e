package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avitk/texweld/internal/pipeline"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Compose loose texture maps into packed DDS textures",
	Long: `Pack scans a directory for recognized texture maps, named by role
(diffuse, normal, specular, glow, skin_tint, height, cubemap, env_mask,
inner_diffuse, inner_depth, subsurface, backlight, metallic, glossiness),
packs them into the renderer's composite channel layouts and writes one
compressed, mipmapped DDS file per output slot.`,
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringP("input", "i", ".", "Directory containing the source images")
	packCmd.Flags().StringP("output", "o", "", "Output directory (default {input}/output)")
	packCmd.Flags().StringP("name", "n", "", "Filename prefix for the written textures")
	packCmd.Flags().BoolP("legacy", "a", false, "Restrict output to legacy formats (BC1/BC3)")
	packCmd.Flags().Bool("high-quality", false, "Compress color textures as BC7")
	packCmd.Flags().BoolP("terrain-parallax", "t", false, "Pack the height map into the diffuse alpha channel")
	packCmd.Flags().BoolP("complex-parallax", "c", false, "Pack env_mask, glossiness, metallic and height into the environment mask")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"pack.input", "input"},
		{"pack.output", "output"},
		{"pack.name", "name"},
		{"pack.legacy", "legacy"},
		{"pack.high_quality", "high-quality"},
		{"pack.terrain_parallax", "terrain-parallax"},
		{"pack.complex_parallax", "complex-parallax"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, packCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runPack(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	opts := pipeline.Options{
		InputDir:        viper.GetString("pack.input"),
		OutputDir:       viper.GetString("pack.output"),
		Name:            viper.GetString("pack.name"),
		Legacy:          viper.GetBool("pack.legacy"),
		HighQuality:     viper.GetBool("pack.high_quality"),
		TerrainParallax: viper.GetBool("pack.terrain_parallax"),
		ComplexParallax: viper.GetBool("pack.complex_parallax"),
	}

	result, err := pipeline.Pack(opts)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	logger.Info("pack complete", "written", len(result.Written))
	return nil
}

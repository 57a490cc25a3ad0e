package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avitk/texweld/internal/dds"
	"github.com/avitk/texweld/internal/texture"
)

// Pack composes every producible output slot from the images in the input
// directory and writes one mipmapped DDS per slot, named {prefix}{suffix}.dds.
// Slots whose sources are absent are omitted; slots that fail to compose,
// encode or write are reported and skipped. Only a failed directory scan
// aborts the run.
func Pack(opts Options) (*Result, error) {
	src, err := ScanDir(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(src) == 0 {
		texture.Logger().Info("no recognized source images", "dir", opts.InputDir)
	}

	outDir := resolveOutputDir(opts)
	res := &Result{}
	for _, comp := range texture.Compose(src, opts.textureOptions()) {
		data, err := dds.Encode(comp.Image, comp.Format, dds.EncodeOptions{
			Quality: dds.QualitySlow,
			Mipmaps: dds.MipmapsGenerated,
		})
		if err != nil {
			texture.Logger().Warn("cannot encode slot", "slot", comp.Name, "err", err)
			continue
		}
		path := filepath.Join(outDir, opts.Name+comp.Suffix+".dds")
		texture.Logger().Info("writing", "path", path, "format", comp.Format, "category", comp.Category)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			texture.Logger().Warn("cannot write texture file", "path", path, "err", err)
			continue
		}
		res.Written = append(res.Written, path)
	}
	return res, nil
}

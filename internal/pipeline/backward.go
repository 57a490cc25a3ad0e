package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avitk/texweld/internal/dds"
	"github.com/avitk/texweld/internal/pixel"
	"github.com/avitk/texweld/internal/texture"
)

// Unpack decodes every .dds file in the input directory back to PNG. Each
// texture yields {prefix}{stem}.png with the color channels; when the
// composite's alpha carries information a grayscale {prefix}{stem}_alpha.png
// is written beside it. Undecodable files are reported and skipped.
func Unpack(opts Options) (*Result, error) {
	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".dds" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	outDir := resolveOutputDir(opts)
	res := &Result{}
	for _, name := range names {
		img, err := dds.DecodeFile(filepath.Join(opts.InputDir, name))
		if err != nil {
			texture.Logger().Warn("cannot decode texture", "file", name, "err", err)
			continue
		}
		rgb, alpha, err := texture.Split(img)
		if err != nil {
			texture.Logger().Warn("cannot split texture", "file", name, "err", err)
			continue
		}
		stem := opts.Name + strings.TrimSuffix(name, ".dds")
		writePNG(res, filepath.Join(outDir, stem+".png"), rgb)
		if alpha != nil {
			writePNG(res, filepath.Join(outDir, stem+"_alpha.png"), alpha)
		}
	}
	return res, nil
}

func writePNG(res *Result, path string, img *pixel.Image) {
	texture.Logger().Info("writing", "path", path)
	if err := pixel.SavePNG(img, path); err != nil {
		texture.Logger().Warn("cannot write image file", "path", path, "err", err)
		return
	}
	res.Written = append(res.Written, path)
}

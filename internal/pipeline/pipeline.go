// Package pipeline drives whole-directory runs: scanning a folder of
// source images into role assignments, composing and encoding the DDS
// outputs, and the reverse trip from DDS back to PNG.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/avitk/texweld/internal/texture"
)

// Options controls a full pack or unpack run.
type Options struct {
	InputDir  string // directory scanned for inputs
	OutputDir string // destination; empty means {InputDir}/output
	Name      string // prefix prepended to every output filename

	Legacy          bool // restrict output formats to the BC1/BC3 era
	HighQuality     bool // upgrade color composites to BC7
	TerrainParallax bool // pack height into the diffuse alpha
	ComplexParallax bool // pack the four-channel environment mask
}

// textureOptions projects the policy flags into the engine's type.
func (o Options) textureOptions() texture.Options {
	return texture.Options{
		Legacy:          o.Legacy,
		HighQuality:     o.HighQuality,
		TerrainParallax: o.TerrainParallax,
		ComplexParallax: o.ComplexParallax,
	}
}

// Result summarizes a run.
type Result struct {
	Written []string // paths of the files written, in emission order
}

// resolveOutputDir picks the destination directory, creating it if
// needed. When the requested directory cannot be created the run falls
// back to writing next to the inputs instead of dying.
func resolveOutputDir(opts Options) string {
	dir := opts.OutputDir
	if dir == "" {
		dir = filepath.Join(opts.InputDir, "output")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		texture.Logger().Warn("cannot create output directory, writing next to input",
			"dir", dir, "err", err)
		return opts.InputDir
	}
	return dir
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avitk/texweld/internal/pixel"
	"github.com/avitk/texweld/internal/texture"
)

// ScanDir locates the recognized role images in dir, matching file stems
// against the role names regardless of extension. Entries are visited in
// sorted order so duplicate stems resolve identically on every run; the
// first decodable file for a role wins. Files that fail to decode are
// reported and ignored, leaving their role unassigned.
func ScanDir(dir string) (texture.Sources, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	byStem := make(map[string]texture.Role, len(texture.Roles))
	for _, r := range texture.Roles {
		byStem[string(r)] = r
	}

	src := make(texture.Sources)
	for _, name := range names {
		role, ok := byStem[strings.TrimSuffix(name, filepath.Ext(name))]
		if !ok {
			continue
		}
		if _, dup := src[role]; dup {
			texture.Logger().Warn("duplicate source for role, ignoring", "role", role, "file", name)
			continue
		}
		img, err := pixel.Load(filepath.Join(dir, name))
		if err != nil {
			texture.Logger().Warn("cannot decode source image, file will be ignored",
				"file", name, "err", err)
			continue
		}
		texture.Logger().Info("found source image", "file", name, "format", img.Format)
		src[role] = img
	}
	return src, nil
}

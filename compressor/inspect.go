package compressor

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what the image header says about a file, independent of its
// extension.
type ImageInfo struct {
	Format string
	Width  int
	Height int
	Size   int64
}

// Inspect reads only the image header. AVIF is recognized so that an AVIF
// file carrying a .png or .jpg name can be flagged before compression.
func Inspect(path string) (ImageInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to get file info: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{Size: fi.Size()}, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{Size: fi.Size()}, fmt.Errorf("error reading image header: %w", err)
	}

	return ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fi.Size(),
	}, nil
}

// MatchesExtension reports whether the sniffed format agrees with the
// extension of path. jpg and jpeg are equivalent.
func (i ImageInfo) MatchesExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	return ext == i.Format
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%dx%d %s, %s", i.Width, i.Height, i.Format, FormatBytes(i.Size))
}

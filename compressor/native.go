package compressor

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// jpegQuality is the fixed quality used when re-encoding JPEG in process.
const jpegQuality = 85

const outputFileMode = 0o644

// NativeTransformer re-encodes PNG and JPEG in process without an external
// tool. Other formats are reported as ErrUnsupportedFormat.
type NativeTransformer struct{}

func (NativeTransformer) Transform(ctx context.Context, input, output string) (err error) {
	defer func() {
		if err != nil {
			err = &TransformError{Input: input, Output: output, Err: err}
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("error decoding image: %w", err)
	}

	var encode func(io.Writer, image.Image) error
	switch format {
	case "png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		encode = enc.Encode
	case "jpeg":
		encode = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: jpegQuality})
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return writeAtomic(output, func(w io.Writer) error {
		if err := encode(w, img); err != nil {
			return fmt.Errorf("error encoding %s: %w", format, err)
		}
		return nil
	})
}

// writeAtomic writes through a temporary file in the destination directory
// and renames it into place, so a failed encode never leaves a partial file.
func writeAtomic(output string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(output), ".imgcompress-*")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	// CreateTemp uses 0600; outputs get the same mode as other new files.
	if err := tmp.Chmod(outputFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("error setting file mode: %w", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, output); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error renaming file: %w", err)
	}

	return nil
}

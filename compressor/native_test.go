package compressor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImage writes a 16x8 gradient as png, jpeg or gif and returns its path.
func writeImage(t *testing.T, dir, name, format string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 32), 128, 255})
		}
	}

	buf := new(bytes.Buffer)
	switch format {
	case "png":
		require.NoError(t, png.Encode(buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: 100}))
	case "gif":
		require.NoError(t, gif.Encode(buf, img, nil))
	default:
		t.Fatalf("unsupported format: %s", format)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestNativeTransformer_PNG(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "a.png", "png")
	before, err := os.ReadFile(in)
	require.NoError(t, err)
	out := filepath.Join(dir, "out.png")

	require.NoError(t, NativeTransformer{}.Transform(context.Background(), in, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)

	after, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, before, after, "input must not be modified")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(out)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
	}
}

func TestNativeTransformer_JPEG(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "a.jpg", "jpeg")
	out := filepath.Join(dir, "out.jpg")

	require.NoError(t, NativeTransformer{}.Transform(context.Background(), in, out))

	info, err := Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
}

func TestNativeTransformer_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := touch(t, dir, "broken.png")

	tests := []struct {
		name  string
		input string
	}{
		{"not an image", garbage},
		{"missing input", filepath.Join(dir, "missing.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, "out", filepath.Base(tt.input))
			require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

			err := NativeTransformer{}.Transform(context.Background(), tt.input, out)

			var te *TransformError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.input, te.Input)
			assert.NoFileExists(t, out)

			entries, err := os.ReadDir(filepath.Dir(out))
			require.NoError(t, err)
			assert.Empty(t, entries, "no temporary files left behind")
		})
	}
}

func TestNativeTransformer_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	// A decodable image in a format the native engine cannot write.
	in := writeImage(t, dir, "a.gif", "gif")
	out := filepath.Join(dir, "out.gif")

	err := NativeTransformer{}.Transform(context.Background(), in, out)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, out)
}

func TestNativeTransformer_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, "a.png", "png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NativeTransformer{}.Transform(ctx, in, filepath.Join(dir, "out.png"))
	assert.ErrorIs(t, err, context.Canceled)
}

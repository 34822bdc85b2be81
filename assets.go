package pubgen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 80

// copyAssets mirrors StaticDir into the output directory and returns the
// number of files written. JPEG and PNG images wider than MaxImageWidth are
// scaled down on the way.
func (s *Site) copyAssets(ctx context.Context) (int, error) {
	root := s.Config.StaticDir
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if s.Config.MaxImageWidth > 0 {
			if resized, ok, err := resizeImage(data, filepath.Ext(path), s.Config.MaxImageWidth); err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			} else if ok {
				s.logger.Debug("Resized image", "asset", rel, "max_width", s.Config.MaxImageWidth)
				data = resized
			}
		}
		if err := writeFile(filepath.Join(s.Config.OutputDir, rel), data); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// resizeImage scales a JPEG or PNG down to maxWidth, keeping its aspect
// ratio and format. ok is false when the file is not such an image or is
// already narrow enough.
func resizeImage(data []byte, ext string, maxWidth int) (out []byte, ok bool, err error) {
	ext = strings.ToLower(ext)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return nil, false, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= maxWidth {
		return nil, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := max(h*maxWidth/w, 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&buf, dst)
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

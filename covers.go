package mdblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxCoverWidth = 1600
	jpegQuality   = 80
	mediaPrefix   = "/media/"
)

// probeCover resolves a coverImage value against the content tree and reads
// the image dimensions. Remote URLs and missing files yield nil.
func (l *Loader) probeCover(docPath, ref string) *Cover {
	p, ok := coverPath(docPath, ref)
	if !ok {
		return nil
	}
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		l.logger.Warnf("mdblog: cover %s of %s: %v", p, docPath, err)
		return nil
	}
	return &Cover{
		Src:    mediaPrefix + p,
		Path:   p,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
}

// coverPath maps ref to a path inside the content tree. Paths starting with
// "/" are relative to the root, others to the document's directory.
func coverPath(docPath, ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	var p string
	if strings.HasPrefix(u.Path, "/") {
		p = path.Clean(strings.TrimPrefix(u.Path, "/"))
	} else {
		p = path.Join(path.Dir(docPath), u.Path)
	}
	if !fs.ValidPath(p) || p == "." {
		return "", false
	}
	return p, true
}

// resizeCover decodes an image from src and, when it is wider than width,
// scales it down to width and encodes it as JPEG. It reports false when the
// original should be served unchanged.
func resizeCover(src io.Reader, width int) ([]byte, bool, error) {
	if width > maxCoverWidth {
		width = maxCoverWidth
	}
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if width <= 0 || w <= width {
		return nil, false, nil
	}

	newH := h * width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), true, nil
}

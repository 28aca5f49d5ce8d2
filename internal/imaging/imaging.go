// Package imaging normalizes item photos before they are uploaded to the
// remote service. Validating locally avoids a wasted round trip when the
// file isn't an image, and downscaling keeps uploads small.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of an uploaded photo.
const MaxDimension = 1280

// JPEGQuality is the compression quality for re-encoded output.
const JPEGQuality = 80

// allowedMIME lists the accepted input types, checked by sniffing bytes
// rather than trusting the client-supplied content type.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Upload is a photo ready to send to the remote service.
type Upload struct {
	Data     []byte
	Filename string
}

// Reader returns the photo bytes as a reader for the upload request.
func (u *Upload) Reader() io.Reader {
	return bytes.NewReader(u.Data)
}

// Prepare validates the photo, downscales it if it exceeds MaxDimension,
// and re-encodes it as JPEG. The returned filename keeps the original base
// name with a .jpg extension.
func Prepare(r io.Reader, filename string) (*Upload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Upload{Data: buf.Bytes(), Filename: jpegName(filename)}, nil
}

// jpegName swaps the extension for .jpg, since output is always JPEG.
func jpegName(filename string) string {
	base := path.Base(filename)
	if base == "." || base == "/" || base == "" {
		return "photo.jpg"
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".jpg"
}

// downscale resizes so neither dimension exceeds maxDim, preserving aspect
// ratio with Catmull-Rom interpolation. Images already within bounds are
// returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

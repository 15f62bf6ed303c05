// imageprocessor.go - Upload inspection and display previews

package processor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Preview bounds for the image shown next to the caption
const (
	PreviewMaxWidth  = 800
	PreviewMaxHeight = 800
	previewQuality   = 85
)

// supportedExtensions lists the upload types the form accepts
var supportedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Preview is a display-only rendition of an uploaded image
type Preview struct {
	Width    int    // original width in pixels
	Height   int    // original height in pixels
	MIMEType string // MIME type of Data
	Data     []byte
}

// DataURI returns the preview as an inline data URI for HTML rendering
func (p *Preview) DataURI() string {
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", p.MIMEType, base64.StdEncoding.EncodeToString(p.Data))
}

// IsSupportedImage reports whether the file name has an accepted extension
func IsSupportedImage(filename string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// DetectMIMEType sniffs the image type from the bytes. The file extension
// and then the Content-Type sent with the upload are used only when the
// content is not a recognised image; image/jpeg is the last resort.
func DetectMIMEType(data []byte, filename, contentType string) string {
	if len(data) > 0 {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	if mimeType, ok := supportedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mimeType
	}
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	return "image/jpeg"
}

// BuildPreview decodes the upload and renders a JPEG thumbnail that fits in
// PreviewMaxWidth x PreviewMaxHeight. EXIF orientation is applied so the
// preview is shown upright. The original bytes are not modified.
func BuildPreview(data []byte) (*Preview, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	thumb := fitPreview(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Preview{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MIMEType: "image/jpeg",
		Data:     buf.Bytes(),
	}, nil
}

func fitPreview(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= PreviewMaxWidth && bounds.Dy() <= PreviewMaxHeight {
		return img
	}
	return imaging.Fit(img, PreviewMaxWidth, PreviewMaxHeight, imaging.Lanczos)
}

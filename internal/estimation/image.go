package estimation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	_ "golang.org/x/image/webp"
)

var supportedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DetectImageType sniffs the MIME type of an uploaded photo and checks that its
// header decodes. Anything else is ErrInvalidImage.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	contentType := http.DetectContentType(data)
	if _, ok := supportedImageTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if format != supportedImageTypes[contentType] {
		return "", fmt.Errorf("%w: %s payload decoded as %s", ErrInvalidImage, contentType, format)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return "", fmt.Errorf("%w: empty dimensions", ErrInvalidImage)
	}
	return contentType, nil
}

// FileExtension maps a supported image MIME type to a file extension.
func FileExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}

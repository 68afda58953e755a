package receipt

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// MaxLogoBytes is the largest letterhead image accepted.
const MaxLogoBytes = 2 * 1024 * 1024

// ErrInvalidLogo is returned for images that are not PNG or JPEG, are too
// large, or cannot be decoded.
var ErrInvalidLogo = errors.New("invalid logo image")

// Logo is a letterhead image.
type Logo struct {
	// Format is "PNG" or "JPEG".
	Format string

	Data []byte

	// Width and Height are the pixel dimensions.
	Width, Height int

	// Broken is set when the stored image could not be decoded. The receipt
	// then prints an error placeholder instead of the image.
	Broken error
}

// DecodeLogo validates image bytes.
func DecodeLogo(data []byte) (*Logo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidLogo)
	}
	if len(data) > MaxLogoBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the 2 MB limit", ErrInvalidLogo, len(data))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrInvalidLogo)
	}

	logo := &Logo{Data: data, Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "png":
		logo.Format = "PNG"
	case "jpeg":
		logo.Format = "JPEG"
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (use PNG or JPEG)", ErrInvalidLogo, format)
	}
	return logo, nil
}

// ParseDataURL decodes a "data:image/png;base64,..." string.
func ParseDataURL(s string) (*Logo, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: not a base64 image data URL", ErrInvalidLogo)
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if mime != "image/png" && mime != "image/jpeg" {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidLogo, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}
	return DecodeLogo(data)
}

// LogoFromDataURL is ParseDataURL for stored logos: an undecodable value
// gives a Broken logo instead of an error. An empty string gives nil.
func LogoFromDataURL(s string) *Logo {
	if s == "" {
		return nil
	}
	logo, err := ParseDataURL(s)
	if err != nil {
		return &Logo{Broken: err}
	}
	return logo
}

// DataURL encodes the logo for storage.
func (l *Logo) DataURL() string {
	mime := "image/jpeg"
	if l.Format == "PNG" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

// displaySize fits the image into the letterhead box keeping its aspect
// ratio: full box width first, then limited by the box height.
func (l *Logo) displaySize() (w, h float64) {
	aspect := float64(l.Width) / float64(l.Height)
	w = logoMaxWidth
	h = w / aspect
	if h > logoMaxHeight {
		h = logoMaxHeight
		w = h * aspect
	}
	return w, h
}

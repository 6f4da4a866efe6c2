package metadata

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	exif "github.com/dsoprea/go-exif/v3"
	_ "golang.org/x/image/bmp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/spider/internal/model"
)

var upper = cases.Upper(language.Und)

// readImage records the format, colour mode and dimensions of an image and
// its EXIF tags, if any.
func readImage(md *model.FileMetadata, data []byte) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnidentifiedImage, err)
	}

	md.AddProperty("Format", upper.String(format))
	md.AddProperty("Mode", colorMode(cfg.ColorModel))
	md.AddProperty("Size", fmt.Sprintf("(%d, %d)", cfg.Width, cfg.Height))
	md.AddProperty("Width", strconv.Itoa(cfg.Width))
	md.AddProperty("Height", strconv.Itoa(cfg.Height))

	md.EXIF = readEXIF(data)
	return nil
}

// readEXIF returns the EXIF tags of data in file order. Images without an
// EXIF block, or with one that does not parse, yield nil.
func readEXIF(data []byte) []model.Property {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil
	}

	tags := make([]model.Property, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, model.Property{Key: e.TagName, Value: e.Formatted})
	}
	return tags
}

// colorMode names a colour model the way image tools usually label modes.
func colorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.RGBAModel, color.NRGBAModel:
		return "RGBA"
	case color.RGBA64Model, color.NRGBA64Model:
		return "RGBA;16"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	default:
		return "unknown"
	}
}

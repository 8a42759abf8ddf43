package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Size is the canonical pixel size of a profile slot.
type Size struct {
	Width  int
	Height int
}

// Slot sizes by store item type. Badges and frames are square.
var slotSizes = map[string]Size{
	"banner":       {Width: 1500, Height: 500},
	"avatar_frame": {Width: 512, Height: 512},
	"theme":        {Width: 1920, Height: 1080},
	"badge":        {Width: 128, Height: 128},
	"title":        {Width: 600, Height: 120},
}

// SlotSize returns the canonical size for an item type.
func SlotSize(itemType string) (Size, bool) {
	s, ok := slotSizes[itemType]
	return s, ok
}

// Artwork is an encoded image fitted to a slot.
type Artwork struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// RenderArtwork decodes data and produces a PNG of exactly the slot size
// for itemType. Square slots are center-cropped; wide slots are filled.
func RenderArtwork(data []byte, itemType string) (*Artwork, error) {
	size, ok := SlotSize(itemType)
	if !ok {
		return nil, fmt.Errorf("no slot size for item type %q", itemType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, fitted); err != nil {
		return nil, fmt.Errorf("failed to encode artwork: %w", err)
	}

	return &Artwork{
		Data:        buf.Bytes(),
		ContentType: "image/png",
		Width:       fitted.Bounds().Dx(),
		Height:      fitted.Bounds().Dy(),
	}, nil
}

package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/enrollhq/enroll/pkg/types/errs"
)

// ImageNormalizer turns an arbitrary submitted photo into the fixed square
// JPEG every entity directory stores: decode, enforce the minimum dimensions,
// center-crop to a square, resize.
type ImageNormalizer struct {
	minDimension int
	outputSize   int
}

func New(minDimension, outputSize int) *ImageNormalizer {
	return &ImageNormalizer{
		minDimension: minDimension,
		outputSize:   outputSize,
	}
}

func (p *ImageNormalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageNormalizer - Normalize - imaging.Decode: %w: %s", errs.ErrValidation, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < p.minDimension || height < p.minDimension {
		return nil, fmt.Errorf("ImageNormalizer - Normalize: %w: below minimum dimensions %dx%d (min %d)",
			errs.ErrValidation, width, height, p.minDimension)
	}

	// Square crop on the shorter edge, symmetric on the longer axis.
	edge := width
	if height < edge {
		edge = height
	}

	cropped := imaging.CropCenter(img, edge, edge)
	resized := imaging.Resize(cropped, p.outputSize, p.outputSize, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, resized, imaging.JPEG)
	if err != nil {
		return nil, fmt.Errorf("ImageNormalizer - Normalize - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}

package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// AvatarSize is the width and height of every stored avatar.
const AvatarSize = 250

// normalizeAvatar decodes a PNG or JPEG image, crops and scales it to fill
// an AvatarSize square and re-encodes it as PNG.
func normalizeAvatar(r io.Reader) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	dst := imaging.Fill(src, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

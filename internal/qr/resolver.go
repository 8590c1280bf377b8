// Package qr renders request-scoped QR code images for assets. Nothing
// produced here is persisted; the database only stores the code ids.
package qr

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"custodia/internal/models"
)

// Size is the requested code rendering size token.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) pixels() int {
	switch s {
	case SizeMedium:
		return 256
	case SizeLarge:
		return 512
	default:
		return 128
	}
}

// Code is a rendered QR code for one asset.
type Code struct {
	ID      string
	AssetID string
	URL     string
	PNG     []byte
}

// Resolver maps assets to rendered QR codes.
type Resolver interface {
	ResolveForAssets(ctx context.Context, assets []*models.Asset, userID, organizationID string, size Size) (map[string]Code, error)
}

// ImageResolver renders PNG codes pointing at the public asset URL.
type ImageResolver struct {
	baseURL string
}

func NewImageResolver(baseURL string) *ImageResolver {
	return &ImageResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// ResolveForAssets renders one code per asset, keyed by asset id. Assets
// without a stored QR association are skipped rather than failed: the
// checklist renders an empty cell for them.
func (r *ImageResolver) ResolveForAssets(ctx context.Context, assets []*models.Asset, userID, organizationID string, size Size) (map[string]Code, error) {
	codes := make(map[string]Code, len(assets))
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(asset.QRCodes) == 0 {
			continue
		}

		stored := asset.QRCodes[0]
		url := fmt.Sprintf("%s/qr/%s", r.baseURL, stored.ID)
		png, err := qrcode.Encode(url, qrcode.Medium, size.pixels())
		if err != nil {
			return nil, fmt.Errorf("failed to render qr code for asset %s: %w", asset.ID, err)
		}

		codes[asset.ID] = Code{
			ID:      stored.ID,
			AssetID: asset.ID,
			URL:     url,
			PNG:     png,
		}
	}
	return codes, nil
}

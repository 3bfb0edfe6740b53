package catalog

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/disintegration/imaging"

	"vitrin/utils"
)

const productImageDir = "static/productpic"

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// SaveProductImage decodes the upload, writes the original plus a 500px
// thumbnail under static/productpic, and returns the public path.
func SaveProductImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	mimeType := header.Header.Get("Content-Type")
	if !supportedImageTypes[mimeType] {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := utils.GenerateID()
	fileName := uniqueID + ".jpg"

	if err := utils.EnsureDir(productImageDir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	thumbDir := filepath.Join(productImageDir, "thumb")
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(productImageDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	thumb := imaging.Resize(img, 500, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/static/productpic/" + fileName, nil
}

package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/logger"
)

type UploadUsecase struct {
	uploader ImageUploader
}

// DI
func NewUploadUsecase(uploader ImageUploader) *UploadUsecase {
	return &UploadUsecase{uploader: uploader}
}

type UploadOutput struct {
	URL string `json:"url"`
}

// data:image/...;base64, だけ受け付ける
func (u *UploadUsecase) Upload(ctx context.Context, image string) (UploadOutput, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return UploadOutput{}, badRequest("image is required")
	}
	if !IsImageDataURL(image) {
		return UploadOutput{}, badRequest("image must be a base64 data url")
	}

	url, err := u.uploader.Upload(ctx, image)
	if err != nil {
		logger.Error(ctx, "image upload failed", "error", err)
		return UploadOutput{}, NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	return UploadOutput{URL: url}, nil
}

// SVGは受け付けない
var uploadImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// data:image/png;base64,... の形のラスタ画像か
func IsImageDataURL(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return false
	}
	header, data, ok := strings.Cut(rest, ",")
	if !ok || data == "" {
		return false
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	return ok && uploadImageTypes[strings.ToLower(mime)]
}

package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinaryにdata URLをそのまま渡してアップロードする
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// cloudinaryURL: cloudinary://<key>:<secret>@<cloud>
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, dataURL string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, dataURL, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	//APIエラーはerrではなくres.Errorに入る
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty url")
	}
	return res.SecureURL, nil
}

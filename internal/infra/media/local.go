package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// /uploads/* で配信するパス
const PublicPrefix = "/uploads"

var ErrInvalidDataURL = errors.New("invalid image data url")

// 受け付けるのはラスタ画像だけ。SVGはスクリプトを含められるので/uploadsから配信しない
var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// CLOUDINARY_URLが無い時の保存先（ローカルディスク）
type LocalUploader struct {
	dir     string
	baseURL string
}

// baseURLはAPIサーバーの公開URL（空なら相対パス）
func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (u *LocalUploader) Dir() string { return u.dir }

func (u *LocalUploader) Upload(ctx context.Context, dataURL string) (string, error) {
	mime, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	ext := extByMime[mime]

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return u.baseURL + PublicPrefix + "/" + name, nil
}

// data:<mime>;base64,<data> を分解する
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return "", nil, ErrInvalidDataURL
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	mime = strings.ToLower(mime)
	if _, allowed := extByMime[mime]; !ok || !allowed {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mime, data, nil
}

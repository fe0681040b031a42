package model

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify は名前からURL用のslugを作る。
// 小文字化、英数字以外の連続は "-" 1つ、先頭末尾の "-" は削除。
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

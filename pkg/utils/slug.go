package utils

import "github.com/gosimple/slug"

// Slugify 名称 → 小写、连字符分隔的 URL 片段；同名必得同 slug
func Slugify(name string) string {
	return slug.Make(name)
}

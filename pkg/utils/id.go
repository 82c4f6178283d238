package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// IDLen 主键长度（列宽 20，留余量）
const IDLen = 15

// NewID 生成 URL 安全的短 ID
func NewID() string {
	return gonanoid.Must(IDLen)
}

package sanitizer

import (
	"context"
	"image"
)

// Document 页面渲染能力的抽象
// 同一个 Document 不保证并发安全，Sanitizer 只会顺序调用
type Document interface {
	// PageCount 返回页数
	PageCount(ctx context.Context) (int, error)
	// RenderPage 以 scale 倍率渲染第 page 页 (从 1 开始)
	RenderPage(ctx context.Context, page int, scale float64) (image.Image, error)
}

// ProgressFunc 进度回调，在页面循环所在的 goroutine 中同步调用
type ProgressFunc func(percent int)

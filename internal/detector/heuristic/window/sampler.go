// Package window 覆盖窗口采样
// 大文件只解码头部、中部、尾部三个固定大小的窗口，窗口之间插入分隔标记
package window

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Separator 窗口之间的分隔标记，保证匹配不会跨越两个不相关的区域
const Separator = "\n[...SENTINEL_SCAN_BRIDGE...]\n"

// DefaultSize 默认窗口大小 (字节)
const DefaultSize = 128000

// Label 窗口位置
type Label string

const (
	Head  Label = "head"
	Heart Label = "heart"
	Tail  Label = "tail"
)

// Segment 拼接文本中的一个窗口
type Segment struct {
	Label  Label
	Offset int64 // 原始字节偏移
	Length int   // 原始字节长度
	Start  int   // 在拼接文本中的起点 (含)
	End    int   // 在拼接文本中的终点 (不含)
}

// Sample 采样结果
type Sample struct {
	Text     string
	Segments []Segment
}

// Locate 返回包含 [start,end) 的窗口下标，跨越窗口边界或落在分隔符内返回 -1
func (s *Sample) Locate(start, end int) int {
	for i, seg := range s.Segments {
		if start >= seg.Start && start < seg.End {
			if end <= seg.End {
				return i
			}
			return -1
		}
	}
	return -1
}

// Options 采样参数
type Options struct {
	Size int // 窗口大小
	// HeartMinSize 文件达到该大小才采样中部窗口，<=0 时取 4 倍窗口
	HeartMinSize int64
}

type span struct {
	label      Label
	start, end int64
}

// plan 计算窗口在原始字节中的位置
// 头部从 0 开始；尾部起点不早于头部终点；中部以中点为中心，且夹在头尾之间
func plan(size int64, opts Options) []span {
	w := int64(opts.Size)
	if w <= 0 {
		w = DefaultSize
	}
	if size <= 0 {
		return nil
	}

	headEnd := min(w, size)
	spans := []span{{Head, 0, headEnd}}
	if size <= w {
		return spans
	}

	tailStart := max(headEnd, size-w)

	heartMin := opts.HeartMinSize
	if heartMin <= 0 {
		heartMin = 4 * w
	}
	if size >= heartMin {
		start := max(size/2-w/2, headEnd)
		end := min(start+w, tailStart)
		if end > start {
			spans = append(spans, span{Heart, start, end})
		}
	}

	if tailStart < size {
		spans = append(spans, span{Tail, tailStart, size})
	}
	return spans
}

// Take 对 data 采样并解码为文本
func Take(data []byte, opts Options) *Sample {
	spans := plan(int64(len(data)), opts)

	var sb strings.Builder
	sample := &Sample{}
	for i, sp := range spans {
		if i > 0 {
			sb.WriteString(Separator)
		}
		start := sb.Len()
		sb.WriteString(Decode(data[sp.start:sp.end]))
		sample.Segments = append(sample.Segments, Segment{
			Label:  sp.label,
			Offset: sp.start,
			Length: int(sp.end - sp.start),
			Start:  start,
			End:    sb.Len(),
		})
	}
	sample.Text = sb.String()
	return sample
}

// Decode 宽松解码：非法 UTF-8 序列替换为 U+FFFD，不会中断扫描
func Decode(b []byte) string {
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

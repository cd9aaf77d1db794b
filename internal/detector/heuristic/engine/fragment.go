package engine

// ExtractFragment 提取标记之后最近的字面量内容
// 跳过空白后必须紧跟 ( 字符串、<< 字典或 < 十六进制串，且闭合位置在前向窗口和 limit 之内
// 找不到时返回 false，不会报错
func ExtractFragment(text string, from, limit, lookAhead int) (string, bool) {
	if lookAhead <= 0 {
		lookAhead = DefaultLookAhead
	}
	end := min(limit, from+lookAhead, len(text))

	i := from
	for i < end && isPDFSpace(text[i]) {
		i++
	}
	if i >= end {
		return "", false
	}

	switch {
	case text[i] == '(':
		return literalString(text, i, end)
	case text[i] == '<' && i+1 < end && text[i+1] == '<':
		return dictionary(text, i, end)
	case text[i] == '<':
		return hexString(text, i, end)
	}
	return "", false
}

// literalString 处理嵌套括号与反斜杠转义
func literalString(text string, open, end int) (string, bool) {
	depth := 0
	for i := open; i < end; i++ {
		switch text[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[open+1 : i], true
			}
		}
	}
	return "", false
}

// dictionary 处理嵌套的 << >>
func dictionary(text string, open, end int) (string, bool) {
	depth := 0
	for i := open; i+1 < end; i++ {
		switch {
		case text[i] == '<' && text[i+1] == '<':
			depth++
			i++
		case text[i] == '>' && text[i+1] == '>':
			depth--
			if depth == 0 {
				return text[open+2 : i], true
			}
			i++
		}
	}
	return "", false
}

func hexString(text string, open, end int) (string, bool) {
	for i := open + 1; i < end; i++ {
		if text[i] == '>' {
			return text[open+1 : i], true
		}
	}
	return "", false
}

// isPDFSpace PDF 规范定义的空白字符
func isPDFSpace(c byte) bool {
	switch c {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

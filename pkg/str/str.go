package str

// 句子边界字符，兼容中英文标点
var sentenceBoundaries = map[rune]bool{
	'。': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
	'\n': true,
}

// TruncateRunes 按字符数截断，多字节字符按一个字符计
func TruncateRunes(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// TruncateAtSentence 按字符数截断，优先在句子边界处截断
// 从上限往前找句子结束符，最多回退到上限的一半，找不到则硬截断
func TruncateAtSentence(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	for i := max - 1; i >= max/2; i-- {
		if sentenceBoundaries[runes[i]] {
			return string(runes[:i+1])
		}
	}
	return string(runes[:max])
}

// RuneLen 字符数，多字节字符按一个字符计
func RuneLen(text string) int {
	return len([]rune(text))
}

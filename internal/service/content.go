package service

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const (
	excerptLength  = 200
	wordsPerMinute = 200
)

var (
	mdImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdSyntax     = regexp.MustCompile("(?m)^\\s{0,3}(?:#{1,6}\\s+|>\\s?|[-*+]\\s+|\\d+\\.\\s+)|[*_`~]+")
	mdFence      = regexp.MustCompile("(?m)^```.*$")
	mdWhitespace = regexp.MustCompile(`\s+`)
)

// PlainText 把编辑器输出的 HTML 转为纯文本：先转 markdown 再去掉标记
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		// 非法 HTML 时退回原文
		md = html
	}
	md = mdImage.ReplaceAllString(md, "")
	md = mdLink.ReplaceAllString(md, "$1")
	md = mdFence.ReplaceAllString(md, "")
	md = mdSyntax.ReplaceAllString(md, "")
	return strings.TrimSpace(mdWhitespace.ReplaceAllString(md, " "))
}

// Excerpt 取纯文本前 200 个字符，在词边界截断并加省略号
func Excerpt(html string) string {
	text := PlainText(html)
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	runes := []rune(text)[:excerptLength]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > excerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// ReadingMinutes 按每分钟 200 词估算阅读时长，至少 1 分钟
func ReadingMinutes(html string) int {
	words := len(strings.Fields(PlainText(html)))
	mins := int(math.Ceil(float64(words) / wordsPerMinute))
	if mins < 1 {
		return 1
	}
	return mins
}

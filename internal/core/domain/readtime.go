package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// EstimateReadTime returns a label such as "4 min read". Markup is ignored
// and the minimum is one minute.
func EstimateReadTime(content string) string {
	words := len(strings.Fields(htmlTag.ReplaceAllString(content, " ")))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

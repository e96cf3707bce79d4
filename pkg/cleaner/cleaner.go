package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlTagRegex    = regexp.MustCompile(`(?i)<\s*/?\s*(p|div|br|li|ul|ol|h[1-6]|span|strong|b|em|table|tr|td|section|article|body|html)\b[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)

	// ugcPolicy is safe for concurrent use once built.
	ugcPolicy = bluemonday.UGCPolicy()
)

// JobDescription normalises a pasted job description. Plain text is only
// trimmed; HTML copied from a job board is sanitised and reduced to
// block-separated text.
func JobDescription(raw string) string {
	text := strings.TrimSpace(raw)
	if !htmlTagRegex.MatchString(text) {
		return text
	}

	safe := ugcPolicy.Sanitize(text)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(safe))
	if err != nil {
		return collapse(bluemonday.StrictPolicy().Sanitize(text))
	}

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, td").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			if goquery.NodeName(s) == "li" {
				t = "- " + t
			}
			blocks = append(blocks, t)
		}
	})
	if len(blocks) > 0 {
		return collapse(strings.Join(blocks, "\n"))
	}
	return collapse(doc.Text())
}

// LLMResponse strips markdown code fences models sometimes wrap JSON in.
func LLMResponse(response string) string {
	clean := strings.TrimSpace(response)
	if !strings.Contains(clean, "```") {
		return clean
	}

	start := strings.Index(clean, "```")
	body := clean[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 && !strings.ContainsAny(body[:nl], "{[") {
		// drop the language tag, e.g. ```json
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func collapse(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(whitespaceRegex.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

package notion

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Property value builders. Each returns the value to place under the
// property name in a page's properties object.

type textContent struct {
	Content string `json:"content"`
}

// RichTextRun is a single plain text run.
type RichTextRun struct {
	Type string      `json:"type,omitempty"`
	Text textContent `json:"text"`
}

type named struct {
	Name string `json:"name"`
}

func textRun(content string) RichTextRun {
	return RichTextRun{Type: "text", Text: textContent{Content: content}}
}

// Title builds a title value.
func Title(content string) map[string]any {
	return map[string]any{"title": []RichTextRun{textRun(content)}}
}

// RichText builds a rich_text value holding one run.
func RichText(content string) map[string]any {
	return map[string]any{"rich_text": []RichTextRun{textRun(content)}}
}

// Select builds a select value.
func Select(name string) map[string]any {
	return map[string]any{"select": named{Name: name}}
}

// MultiSelect builds a multi_select value with one option per name.
func MultiSelect(names ...string) map[string]any {
	options := make([]named, len(names))
	for i, n := range names {
		options[i] = named{Name: n}
	}
	return map[string]any{"multi_select": options}
}

// Status builds a status value.
func Status(name string) map[string]any {
	return map[string]any{"status": named{Name: name}}
}

// Checkbox builds a checkbox value.
func Checkbox(checked bool) map[string]any {
	return map[string]any{"checkbox": checked}
}

// Date builds a date value starting at start (ISO 8601).
func Date(start string) map[string]any {
	return map[string]any{"date": map[string]string{"start": start}}
}

// Block is a page child block. Only paragraphs are produced.
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
}

// Paragraph is the body of a paragraph block.
type Paragraph struct {
	RichText []RichTextRun `json:"rich_text"`
}

// ParagraphBlock wraps a line of text. Empty lines become a single space,
// since Notion rejects empty text content.
func ParagraphBlock(line string) Block {
	if line == "" {
		line = " "
	}
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &Paragraph{RichText: []RichTextRun{textRun(line)}},
	}
}

var lineBreakRegex = regexp.MustCompile(`\r?\n`)

// BodyToParagraphBlocks converts body into one paragraph per line.
// A blank body yields no blocks.
func BodyToParagraphBlocks(body string) []Block {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	lines := lineBreakRegex.Split(body, -1)
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = ParagraphBlock(line)
	}
	return blocks
}

var (
	dashedIDRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	hexIDRegex    = regexp.MustCompile(`(?:^|[^0-9a-fA-F])([0-9a-fA-F]{32})(?:$|[^0-9a-fA-F])`)
)

// NormalizeCollectionID extracts a database id from a dashed or undashed
// UUID or a Notion URL and returns it in canonical dashed form. It returns ""
// when value holds no id.
func NormalizeCollectionID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if id, err := uuid.Parse(value); err == nil {
		return id.String()
	}

	// Page URLs carry the id after the title slug and before any query.
	if i := strings.IndexAny(value, "?#"); i >= 0 {
		value = value[:i]
	}

	candidate := ""
	if m := dashedIDRegex.FindAllString(value, -1); len(m) > 0 {
		candidate = m[len(m)-1]
	} else if m := hexIDRegex.FindAllStringSubmatch(value, -1); len(m) > 0 {
		candidate = m[len(m)-1][1]
	}
	if candidate == "" {
		return ""
	}
	id, err := uuid.Parse(candidate)
	if err != nil {
		return ""
	}
	return id.String()
}

package notion

import (
	"encoding/json"
	"testing"
)

func TestBodyToParagraphBlocks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \n\t", nil},
		{"single line", "hello", []string{"hello"}},
		{"blank line kept as space", "a\n\nb", []string{"a", " ", "b"}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := BodyToParagraphBlocks(tt.body)
			if len(blocks) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d", len(blocks), len(tt.want))
			}
			for i, b := range blocks {
				if b.Type != "paragraph" || b.Object != "block" {
					t.Errorf("block %d: type %q object %q", i, b.Type, b.Object)
				}
				if got := b.Paragraph.RichText[0].Text.Content; got != tt.want[i] {
					t.Errorf("block %d content = %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestPropertyBuilders(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
		want  string
	}{
		{"title", Title("Buy milk"), `{"title":[{"type":"text","text":{"content":"Buy milk"}}]}`},
		{"rich text", RichText("note"), `{"rich_text":[{"type":"text","text":{"content":"note"}}]}`},
		{"select", Select("P2 🟠"), `{"select":{"name":"P2 🟠"}}`},
		{"multi select", MultiSelect("a", "b"), `{"multi_select":[{"name":"a"},{"name":"b"}]}`},
		{"status", Status("Not started"), `{"status":{"name":"Not started"}}`},
		{"checkbox", Checkbox(false), `{"checkbox":false}`},
		{"date", Date("2026-10-17"), `{"date":{"start":"2026-10-17"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}

func TestNormalizeCollectionID(t *testing.T) {
	const want = "2fa414cc-8377-81f5-bd6a-fca8633835cc"
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dashed", want, want},
		{"undashed", "2fa414cc837781f5bd6afca8633835cc", want},
		{"upper case", "2FA414CC837781F5BD6AFCA8633835CC", want},
		{"padded", "  " + want + "  ", want},
		{"page url", "https://www.notion.so/team/Tasks-2fa414cc837781f5bd6afca8633835cc?v=0123456789abcdef0123456789abcdef", want},
		{"url with dashed id", "https://notion.so/" + want, want},
		{"empty", "", ""},
		{"garbage", "not an id", ""},
		{"too short", "2fa414cc837781f5", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCollectionID(tt.input); got != tt.want {
				t.Errorf("NormalizeCollectionID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\": {\"b\": \"}\"}}\n```", `{"a": {"b": "}"}}`},
		{"prose around", "Here is the report:\n{\"a\":[1,2]}\nHope this helps.", `{"a":[1,2]}`},
		{"trailing object ignored", `{"a":1} {"b":2}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, in := range []string{"", "I cannot help with that.", `{"a": `} {
		if _, err := ExtractJSON(in); !errors.Is(err, ErrNoJSON) {
			t.Errorf("ExtractJSON(%q) error = %v, want ErrNoJSON", in, err)
		}
	}
}

func TestBuildArticlePrompt(t *testing.T) {
	p := BuildArticlePrompt("https://news.example/x", "Coffee and you", "BODY TEXT", "2026-01-02", []string{"https://doi.org/10.1/x"})
	for _, want := range []string{"https://news.example/x", "Title: Coffee and you", "2026-01-02", "BODY TEXT", `"provenance"`, "- https://doi.org/10.1/x", IrrelevantAnswer} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(BuildArticlePrompt("u", "", "t", "d", nil), "Title:") {
		t.Error("blank title should be omitted")
	}
}

func TestBuildScreenshotPrompt(t *testing.T) {
	p := BuildScreenshotPrompt("2026-01-02")
	if !strings.Contains(p, "extractedText") || !strings.Contains(p, IrrelevantAnswer) {
		t.Error("screenshot prompt should ask for extracted text and explain irrelevant answers")
	}
}

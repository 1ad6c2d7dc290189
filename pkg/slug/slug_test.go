package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"accents", "Crème Brûlée", "creme-brulee"},
		{"underscores", "go_is_fun", "go-is-fun"},
		{"collapse", "a  --  b", "a-b"},
		{"trim", "--edge--", "edge"},
		{"numbers", "Top 10 Go Tips", "top-10-go-tips"},
		{"emoji only", "🚀🚀", ""},
		{"cjk dropped", "Go 语言", "go"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("one-two-three", 9); got != "one-two" {
		t.Errorf("got %q, want cut at dash", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd" {
		t.Errorf("got %q, want hard cut", got)
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"a", "go-1", "hello-world"} {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Hello", "a--b", "-a", "a-", "a b"} {
		if Valid(s) {
			t.Errorf("Valid(%q) = true", s)
		}
	}
}

package linkref

import (
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	text := "Form yahan hai https://forms.gle/abc123. Aur details www.example.com/page pe, " +
		"phir se https://forms.gle/abc123"

	got := ExtractURLs(text)
	want := []string{"https://forms.gle/abc123", "https://www.example.com/page"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractURLs() = %v, want %v", got, want)
	}
}

func TestExtractURLsNone(t *testing.T) {
	if got := ExtractURLs("kal meeting hai 5 baje"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMergeKeepsExplicitLinksFirst(t *testing.T) {
	got := Merge(
		[]string{"https://a.example.com", " ", "https://a.example.com"},
		"see https://b.example.com and https://a.example.com",
	)
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge() = %v, want %v", got, want)
	}
}

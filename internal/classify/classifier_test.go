package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelevant_KeywordMatch(t *testing.T) {
	c := New(DefaultKeywords())

	cases := []string{
		"We have a new hiring opening for backend engineers",
		"JOB ALERT: apply now",
		"Shortlisted candidates will be contacted",
		"walk-in drive on Monday",
	}
	for _, text := range cases {
		if !c.Relevant(text) {
			t.Errorf("expected relevant: %q", text)
		}
	}
}

func TestRelevant_NoMatch(t *testing.T) {
	c := New(DefaultKeywords())

	cases := []string{
		"Happy birthday!",
		"See you at lunch",
		"",
	}
	for _, text := range cases {
		if c.Relevant(text) {
			t.Errorf("expected not relevant: %q", text)
		}
	}
}

func TestRelevant_CaseInsensitive(t *testing.T) {
	c := New([]string{"interview"})
	if !c.Relevant("INTERVIEW scheduled tomorrow") {
		t.Error("uppercase text should match lowercase keyword")
	}
	if !c.Relevant("InTeRvIeW") {
		t.Error("mixed case should match")
	}
}

func TestRelevant_SubstringNotWordBounded(t *testing.T) {
	c := New([]string{"interview"})
	if !c.Relevant("we are interviewing candidates") {
		t.Error("keyword inside a larger word should match")
	}
}

func TestRelevant_EmptyText(t *testing.T) {
	c := New(DefaultKeywords())
	if c.Relevant("") {
		t.Error("empty text should never be relevant")
	}
}

func TestRelevant_EmptyKeywordSet(t *testing.T) {
	c := New(nil)
	if c.Relevant("job hiring interview") {
		t.Error("empty keyword set should match nothing")
	}
}

func TestNew_NormalizesKeywords(t *testing.T) {
	c := New([]string{"  JOB  ", "Hiring", "", "job"})
	if !c.Relevant("new job posted") {
		t.Error("trimmed lowercase keyword should match")
	}
	if !c.Relevant("HIRING now") {
		t.Error("keyword lowered at construction should match")
	}
}

func TestLoadKeywordsFile_MappingForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "keywords:\n  - vacancy\n  - walk-in\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	words, err := LoadKeywordsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 || words[0] != "vacancy" || words[1] != "walk-in" {
		t.Errorf("unexpected keywords: %v", words)
	}
}

func TestLoadKeywordsFile_BareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("- job\n- hiring\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	words, err := LoadKeywordsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("expected 2 keywords, got %v", words)
	}
}

func TestLoadKeywordsFile_Missing(t *testing.T) {
	if _, err := LoadKeywordsFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

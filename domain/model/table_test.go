package model

import (
	"testing"
)

func TestTableName_Sanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "change_tag_def", "change_tag_def"},
		{"dashes and dots", "enwiki-latest.page", "enwiki_latest_page"},
		{"leading digit", "2021_page", "table_2021_page"},
		{"only symbols", "?!*", "table"},
		{"empty", "   ", "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NewTableName(tt.input).Sanitize().String(); got != tt.expected {
				t.Errorf("Sanitize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTableName_Truncate(t *testing.T) {
	t.Parallel()

	if got := NewTableName("categorylinks").Truncate(8).String(); got != "category" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := NewTableName("page").Truncate(31).String(); got != "page" {
		t.Errorf("Truncate() = %q", got)
	}
}

func TestTableFromFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{"simplewiki-latest-page.sql.gz", "simplewiki-latest-page"},
		{"/tmp/dumps/testfile.sql", "testfile"},
		{"testfile.SQL.ZST", "testfile"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := TableFromFilePath(tt.path); got != tt.expected {
				t.Errorf("TableFromFilePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

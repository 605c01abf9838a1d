package model

import (
	"testing"
)

func TestRecord_Equal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record1  Record
		record2  Record
		expected bool
	}{
		{
			name:     "Equal records",
			record1:  NewRecord([]string{"1", "mw-replace"}),
			record2:  NewRecord([]string{"1", "mw-replace"}),
			expected: true,
		},
		{
			name:     "Different length records",
			record1:  NewRecord([]string{"1", "mw-replace"}),
			record2:  NewRecord([]string{"1"}),
			expected: false,
		},
		{
			name:     "Different content records",
			record1:  NewRecord([]string{"1", "mw-replace"}),
			record2:  NewRecord([]string{"1", "mw-undo"}),
			expected: false,
		},
		{
			name:     "Empty records",
			record1:  NewRecord([]string{}),
			record2:  NewRecord([]string{}),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.record1.Equal(tt.record2); got != tt.expected {
				t.Errorf("Equal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRecord_Row(t *testing.T) {
	t.Parallel()

	row := NewRecord([]string{"1", "", "x"}).Row()
	if len(row) != 3 {
		t.Fatalf("expected length 3, got %d", len(row))
	}
	for i, want := range []string{"1", "", "x"} {
		if got, ok := row[i].(string); !ok || got != want {
			t.Errorf("row[%d] = %#v, want %q", i, row[i], want)
		}
	}
}

func TestRow_Strings(t *testing.T) {
	t.Parallel()

	row := Row{int64(8), "Project_scope", 0.575193598203, uint64(18446744073709551615), "", nil}
	want := []string{"8", "Project_scope", "0.575193598203", "18446744073709551615", "", ""}

	got := row.Strings()
	if len(got) != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       Kind
		name       string
		sqliteType string
	}{
		{KindString, "str", "TEXT"},
		{KindInteger, "int", "INTEGER"},
		{KindFloat, "float", "REAL"},
		{Kind(99), "str", "TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.SQLiteType(); got != tt.sqliteType {
				t.Errorf("SQLiteType() = %q, want %q", got, tt.sqliteType)
			}
		})
	}
}

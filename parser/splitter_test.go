package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTuples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "two tuples with terminator",
			line:     "INSERT INTO `change_tag_def` VALUES (1,'mw-replace',0,10200),(2,'visualeditor',0,305860);",
			expected: []string{"1,'mw-replace',0,10200", "2,'visualeditor',0,305860"},
		},
		{
			name:     "without terminator and with trailing newline",
			line:     "INSERT INTO `change_tag_def` VALUES (1,'mw-replace',0,10200),(2,'visualeditor',0,305860)\n",
			expected: []string{"1,'mw-replace',0,10200", "2,'visualeditor',0,305860"},
		},
		{
			name:     "single tuple",
			line:     "INSERT INTO `page` VALUES (10,0,'AccessibleComputing',1);",
			expected: []string{"10,0,'AccessibleComputing',1"},
		},
		{
			name:     "bare NULL values become empty",
			line:     "INSERT INTO `page` VALUES (NULL,1,NULL),(2,NULL,NULL);",
			expected: []string{",1,", "2,,"},
		},
		{
			name:     "quoted NULL substrings are kept",
			line:     "INSERT INTO `change_tag_def` VALUES (1,'mw-replace?NULL',0,10200),(2,'NULL',0,1),(3,'NULLS',0,2);",
			expected: []string{"1,'mw-replace?NULL',0,10200", "2,'NULL',0,1", "3,'NULLS',0,2"},
		},
		{
			name:     "NULL as part of an unquoted token is kept",
			line:     "INSERT INTO `t` VALUES (NULLX,XNULL);",
			expected: []string{"NULLX,XNULL"},
		},
		{
			name:     "no values marker",
			line:     "INSERT INTO `t` (a,b) SELECT 1,2;",
			expected: nil,
		},
		{
			name:     "empty value list",
			line:     "INSERT INTO `t` VALUES ;",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, SplitTuples(tt.line))
		})
	}
}

func TestSplitTuples_KnownLimitations(t *testing.T) {
	t.Parallel()

	t.Run("separator inside a quoted value splits the tuple", func(t *testing.T) {
		t.Parallel()
		got := SplitTuples("INSERT INTO `page` VALUES (1,'a),(b',0);")
		assert.Equal(t, []string{"1,'a", "b',0"}, got)
	})

	t.Run("delimited NULL inside a quoted value is dropped", func(t *testing.T) {
		t.Parallel()
		got := SplitTuples("INSERT INTO `page` VALUES (1,'a,NULL,b');")
		assert.Equal(t, []string{"1,'a,,b'"}, got)
	})
}

func TestReplaceNulls(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(,,)", replaceNulls("(NULL,NULL,NULL)"))
	assert.Equal(t, "NULL", replaceNulls("NULL"))
	assert.Equal(t, "(1,NULL", replaceNulls("(1,NULL"))
	assert.Equal(t, "(1,2)", replaceNulls("(1,2)"))
}

package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		criteria Criteria
		want     string
	}{
		{
			name: "no criteria",
			kind: KindFile,
			want: "",
		},
		{
			name:     "string contains",
			kind:     KindFile,
			criteria: Criteria{"name": "report"},
			want:     "name contains 'report'",
		},
		{
			name:     "bool equality",
			kind:     KindFile,
			criteria: Criteria{"trashed": false},
			want:     "trashed = false",
		},
		{
			name:     "snake case to camel case",
			kind:     KindFile,
			criteria: Criteria{"full_text": "budget", "viewed_by_me": true},
			want:     "fullText contains 'budget' and viewedByMe = true",
		},
		{
			name:     "folder id",
			kind:     KindFile,
			criteria: Criteria{"folder": "f1"},
			want:     "'f1' in parents",
		},
		{
			name:     "folder entity",
			kind:     KindFile,
			criteria: Criteria{"folder": NewFolder("f2")},
			want:     "'f2' in parents",
		},
		{
			name:     "kind mime type injected",
			kind:     KindDocument,
			criteria: Criteria{"name": "notes"},
			want:     "mimeType contains '" + MimeTypeDocument + "' and name contains 'notes'",
		},
		{
			name:     "kind mime type replaces criterion",
			kind:     KindFolder,
			criteria: Criteria{"mime_type": "text/plain"},
			want:     "mimeType contains '" + MimeTypeFolder + "'",
		},
		{
			name:     "quotes and backslashes escaped",
			kind:     KindFile,
			criteria: Criteria{"name": `it's a\b`},
			want:     `name contains 'it\'s a\\b'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQuery(tt.kind, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQuery_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
	}{
		{name: "camel case key", criteria: Criteria{"mimeType": "x"}},
		{name: "key with operator", criteria: Criteria{"name or 1": "x"}},
		{name: "leading digit", criteria: Criteria{"1name": "x"}},
		{name: "unsupported value", criteria: Criteria{"starred": 1}},
		{name: "empty folder", criteria: Criteria{"folder": ""}},
		{name: "folder of wrong type", criteria: Criteria{"folder": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuery(KindFile, tt.criteria)
			assert.ErrorIs(t, err, ErrInvalidCriterion)
		})
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "name", camelCase("name"))
	assert.Equal(t, "mimeType", camelCase("mime_type"))
	assert.Equal(t, "sharedWithMe", camelCase("shared_with_me"))
	assert.Equal(t, "version2", camelCase("version_2"))
}

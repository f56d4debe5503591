package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheet_Qualify(t *testing.T) {
	tests := []struct {
		title string
		rng   string
		want  string
	}{
		{"Sheet1", "A1:B2", "Sheet1!A1:B2"},
		{"Sheet1", "Other!A1", "Other!A1"},
		{"My Data", "A1", "'My Data'!A1"},
		{"Bob's", "C3", "'Bob''s'!C3"},
	}

	for _, tt := range tests {
		sh := &Sheet{Title: tt.title}
		if got := sh.Qualify(tt.rng); got != tt.want {
			t.Errorf("Qualify(%q) with title %q = %q, want %q", tt.rng, tt.title, got, tt.want)
		}
	}
}

func TestSheet_Detached(t *testing.T) {
	ctx := context.Background()
	sh := &Sheet{ID: 3, Title: "Orphan"}

	_, err := sh.Read(ctx, "A1")
	assert.ErrorIs(t, err, ErrSheetDetached)
	assert.ErrorIs(t, sh.Write(ctx, "A1", [][]any{{"x"}}, ""), ErrSheetDetached)
	assert.ErrorIs(t, sh.Clear(ctx, "A1"), ErrSheetDetached)
	_, err = sh.BatchRead(ctx, []string{"A1"})
	assert.ErrorIs(t, err, ErrSheetDetached)
	assert.ErrorIs(t, sh.BatchWrite(ctx, nil, ""), ErrSheetDetached)
	assert.ErrorIs(t, sh.BatchClear(ctx, nil), ErrSheetDetached)
	_, err = sh.Fetch(ctx, "A1")
	assert.ErrorIs(t, err, ErrSheetDetached)
	assert.ErrorIs(t, sh.Store(ctx, nil, nil), ErrSheetDetached)
	assert.ErrorIs(t, sh.Delete(ctx), ErrSheetDetached)

	_, err = sh.Equal(&Sheet{})
	assert.ErrorIs(t, err, ErrSheetDetached)
}

func TestSheet_DelegatesWithTitle(t *testing.T) {
	srv, b := newTestBinding(t)
	srv.AddSpreadsheet("ss1", "Budget", "Data")
	ctx := context.Background()

	s := b.Spreadsheets().Spreadsheet("ss1")
	sh, err := s.SheetByTitle(ctx, "Data")
	require.NoError(t, err)

	require.NoError(t, sh.Write(ctx, "A1:B1", [][]any{{"k", "v"}}, ValueInputRaw))

	got, err := s.Read(ctx, "Data!A1:B1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"k", "v"}}, got)

	got, err = sh.Read(ctx, "A1:B1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"k", "v"}}, got)

	require.NoError(t, sh.Store(ctx, []string{"C1", "D1"}, [][][]any{{{"c"}}, {{"d"}}}))
	grids, err := sh.Fetch(ctx, "C1", "D1")
	require.NoError(t, err)
	assert.Equal(t, [][][]any{{{"c"}}, {{"d"}}}, grids)

	require.NoError(t, sh.BatchClear(ctx, []string{"C1", "D1"}))
	grids, err = sh.BatchRead(ctx, []string{"C1", "D1"})
	require.NoError(t, err)
	assert.Empty(t, grids[0])
	assert.Empty(t, grids[1])
}

func TestSheet_Equal(t *testing.T) {
	a := NewSpreadsheet("ss1")
	b := NewSpreadsheet("ss2")

	s1 := &Sheet{ID: 1, spreadsheet: a}
	s1again := &Sheet{ID: 1, Title: "renamed", spreadsheet: NewSpreadsheet("ss1")}
	s2 := &Sheet{ID: 2, spreadsheet: a}
	other := &Sheet{ID: 1, spreadsheet: b}

	eq, err := s1.Equal(s1again)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = s1.Equal(s2)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = s1.Equal(other)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestSheet_Attach(t *testing.T) {
	sh := &Sheet{ID: 1}
	assert.True(t, sh.Detached())

	s := NewSpreadsheet("ss1")
	sh.Attach(s)
	assert.False(t, sh.Detached())
	assert.Same(t, s, sh.Spreadsheet())
}

func TestSheet_ValueInputOption(t *testing.T) {
	srv, b := newTestBinding(t)
	srv.AddSpreadsheet("ss1", "Budget", "Data")
	ctx := context.Background()

	s := b.Spreadsheets().Spreadsheet("ss1")
	sh, err := s.SheetByTitle(ctx, "Data")
	require.NoError(t, err)

	assert.Equal(t, ValueInputRaw, sh.ValueInputOption())
	require.NoError(t, s.SetValueInputOption(ValueInputUserEntered))
	assert.Equal(t, ValueInputUserEntered, sh.ValueInputOption())

	require.NoError(t, sh.SetValueInputOption(ValueInputRaw))
	assert.Equal(t, ValueInputRaw, sh.ValueInputOption())
	assert.Equal(t, ValueInputUserEntered, s.ValueInputOption())
	assert.ErrorIs(t, sh.SetValueInputOption("PARSED"), ErrInvalidValueInputOption)

	require.NoError(t, sh.Store(ctx, []string{"A1"}, [][][]any{{{"=1+1"}}}))
	last := srv.Requests()[len(srv.Requests())-1]
	assert.Contains(t, last.Query, "valueInputOption=RAW")

	require.NoError(t, sh.SetValueInputOption(""))
	require.NoError(t, sh.Store(ctx, []string{"A1"}, [][][]any{{{"=1+1"}}}))
	last = srv.Requests()[len(srv.Requests())-1]
	assert.Contains(t, last.Query, "valueInputOption=USER_ENTERED")
}

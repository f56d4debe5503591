package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_RequiresCredentials(t *testing.T) {
	assert.True(t, NewLocator().RequiresCredentials())
	assert.False(t, NewLocator(WithHTTPClient(http.DefaultClient)).RequiresCredentials())

	var nilLocator *Locator
	assert.True(t, nilLocator.RequiresCredentials())
}

func TestLocator_WithoutCredentials(t *testing.T) {
	_, err := NewLocator().Drive(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestLocator_UnknownService(t *testing.T) {
	l := NewLocator(WithHTTPClient(http.DefaultClient))
	_, err := l.Locate(context.Background(), nil, Resource{Name: "gmail", Version: "v1"})
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestLocator_BindsEndpoint(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","spreadsheetId":"abc"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	l := NewLocator(WithEndpoint(srv.URL+"/"), WithHTTPClient(srv.Client()))

	driveSvc, err := l.Drive(ctx, nil)
	require.NoError(t, err)
	_, err = driveSvc.Files.Get("abc").Context(ctx).Do()
	require.NoError(t, err)

	sheetsSvc, err := l.Sheets(ctx, nil)
	require.NoError(t, err)
	_, err = sheetsSvc.Spreadsheets.Get("abc").Context(ctx).Do()
	require.NoError(t, err)

	assert.Equal(t, []string{"/files/abc", "/v4/spreadsheets/abc"}, paths)
}

func TestResource_String(t *testing.T) {
	assert.Equal(t, "drive/v3", DriveV3.String())
	assert.Equal(t, "sheets/v4", SheetsV4.String())
}

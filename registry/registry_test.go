package registry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write content to a file in a temp directory
func createTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadDOIs_DefaultColumn verifies the header is skipped and column 0 read
func TestLoadDOIs_DefaultColumn(t *testing.T) {
	path := createTestFile(t, "dois.csv", "DOI,Title\n10.1/a,Foo\n10.1/b,Bar\n")

	dois, err := LoadDOIs(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.1/a", "10.1/b"}, dois)
}

// TestLoadDOIs_OtherColumn verifies a configurable column
func TestLoadDOIs_OtherColumn(t *testing.T) {
	path := createTestFile(t, "dois.csv", "Title,DOI\n\"Foo, with comma\", 10.1/a\nBar,10.1/b\n")

	dois, err := LoadDOIs(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.1/a", "10.1/b"}, dois)
}

// TestLoadDOIs_HeaderOnly verifies a file with only a header gives nothing
func TestLoadDOIs_HeaderOnly(t *testing.T) {
	path := createTestFile(t, "dois.csv", "DOI\n")

	dois, err := LoadDOIs(path, 0)
	require.NoError(t, err)
	assert.Empty(t, dois)
}

// TestReadDOIs_EmptyInput verifies empty input is not an error
func TestReadDOIs_EmptyInput(t *testing.T) {
	dois, err := ReadDOIs(strings.NewReader(""), 0)
	require.NoError(t, err)
	assert.Empty(t, dois)
}

// TestReadDOIs_ShortRow verifies a row missing the column is an error
func TestReadDOIs_ShortRow(t *testing.T) {
	_, err := ReadDOIs(strings.NewReader("a,b\n10.1/a,x\n10.1/b\n"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
	assert.Contains(t, err.Error(), "line 3")
}

// TestReadDOIs_NegativeColumn verifies column validation
func TestReadDOIs_NegativeColumn(t *testing.T) {
	_, err := ReadDOIs(strings.NewReader("DOI\n10.1/a\n"), -1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

// TestLoadDOIs_MissingFile verifies missing files are reported
func TestLoadDOIs_MissingFile(t *testing.T) {
	_, err := LoadDOIs(filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestPrimaryTitle verifies the first title is used
func TestPrimaryTitle(t *testing.T) {
	assert.Equal(t, "Foo", Record{Title: []string{"Foo", "Subtitle"}}.PrimaryTitle())
	assert.Equal(t, "", Record{DOI: "10.1/x"}.PrimaryTitle())
	assert.Equal(t, "Bar", NewRecord("10.1/y", "Bar").PrimaryTitle())
}

// TestDecodeRecords_Array verifies a plain array of records
func TestDecodeRecords_Array(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(`[
		{"DOI": "10.1/x", "title": ["Foo"], "publisher": "ISU"},
		{"DOI": "10.1/y", "title": []}
	]`))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, NewRecord("10.1/x", "Foo"), records[0])
	assert.Equal(t, "", records[1].PrimaryTitle())
}

// TestDecodeRecords_CrossrefEnvelope verifies a works list response
func TestDecodeRecords_CrossrefEnvelope(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(`{
		"status": "ok",
		"message-type": "work-list",
		"message": {"items": [{"DOI": "10.1/x", "title": ["Foo"]}]}
	}`))
	require.NoError(t, err)
	assert.Equal(t, []Record{NewRecord("10.1/x", "Foo")}, records)
}

// TestDecodeRecords_Invalid verifies malformed JSON is an error
func TestDecodeRecords_Invalid(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`[{"DOI": `))
	assert.Error(t, err)
}

// TestEncodeRecords_RoundTrip verifies records written can be loaded back
func TestEncodeRecords_RoundTrip(t *testing.T) {
	records := []Record{NewRecord("10.1/x", "Foo"), NewRecord("10.1/y", "Bar")}

	var buf bytes.Buffer
	require.NoError(t, EncodeRecords(&buf, records))

	path := createTestFile(t, "records.json", buf.String())
	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

// TestBareDOI verifies URL prefixes are stripped
func TestBareDOI(t *testing.T) {
	assert.Equal(t, "10.31274/x.1", BareDOI("https://doi.org/10.31274/x.1"))
	assert.Equal(t, "10.31274/x.1", BareDOI("HTTPS://DOI.ORG/10.31274/x.1"))
	assert.Equal(t, "10.31274/x.1", BareDOI("doi:10.31274/x.1"))
	assert.Equal(t, "10.31274/x.1", BareDOI(" 10.31274/x.1 "))
}

// Test helper: serve a fake Crossref works endpoint
func createTestCrossref(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/10.1/x":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","message-type":"work","message":{"DOI":"10.1/x","title":["Foo"]}}`))
		case "/works/10.1/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// TestCrossrefLookup_Found verifies a work lookup
func TestCrossrefLookup_Found(t *testing.T) {
	server := createTestCrossref(t)
	client := NewCrossrefClient(server.URL, "", 5*time.Second)

	record, err := client.Lookup(context.Background(), "https://doi.org/10.1/x")
	require.NoError(t, err)
	assert.Equal(t, NewRecord("10.1/x", "Foo"), record)
}

// TestCrossrefLookup_NotFound verifies unknown DOIs
func TestCrossrefLookup_NotFound(t *testing.T) {
	server := createTestCrossref(t)
	client := NewCrossrefClient(server.URL, "", 5*time.Second)

	_, err := client.Lookup(context.Background(), "10.1/missing")
	assert.ErrorIs(t, err, ErrDOINotFound)
}

// TestCrossrefLookupAll verifies unknown DOIs are skipped and other
// failures stop the lookup
func TestCrossrefLookupAll(t *testing.T) {
	server := createTestCrossref(t)
	client := NewCrossrefClient(server.URL+"/", "", 5*time.Second)

	records, err := client.LookupAll(context.Background(), []string{"10.1/x", "10.1/missing"})
	require.NoError(t, err)
	assert.Equal(t, []Record{NewRecord("10.1/x", "Foo")}, records)

	_, err = client.LookupAll(context.Background(), []string{"10.1/x", "10.1/broken"})
	assert.Error(t, err)
}

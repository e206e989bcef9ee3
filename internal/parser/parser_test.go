package parser

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotations = `>1abcA
HHHHEEE
---HH
>2xyzB
CCHHEE
`

func TestParseAnnotations(t *testing.T) {
	chains, err := ParseAnnotations(strings.NewReader(annotations))
	require.NoError(t, err)
	require.Len(t, chains, 2)

	assert.Equal(t, "1abcA", chains[0].ID)
	assert.Equal(t, "HHHHEEE---HH", chains[0].Labels.String())

	// C normalizes to coil.
	assert.Equal(t, "2xyzB", chains[1].ID)
	assert.Equal(t, "--HHEE", chains[1].Labels.String())
}

func TestParseAnnotations_HeaderWithDescription(t *testing.T) {
	chains, err := ParseAnnotations(strings.NewReader(">1abcA some description\nHHH\n"))
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, "1abcA", chains[0].ID)
}

func TestParseAnnotations_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"labels before header", "HHHH\n>id\nHHH\n"},
		{"unknown label", ">id\nHHXH\n"},
		{"duplicate id", ">id\nHHH\n>id\nEEE\n"},
		{"header without labels", ">id\n>other\nHHH\n"},
		{"empty header", ">   \nHHH\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnnotations(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseHorizontal(t *testing.T) {
	report := `# PSIPRED HFORMAT

Conf: 988887777
Pred: CCHHHHHHE
  AA: MKVLAATGE

Conf: 7766
Pred: EECC
  AA: IRKD
`
	seq, err := ParseHorizontal(strings.NewReader(report))
	require.NoError(t, err)
	assert.Equal(t, "--HHHHHHEEE--", seq.String())
}

func TestParseHorizontal_NoPredLines(t *testing.T) {
	_, err := ParseHorizontal(strings.NewReader("Conf: 999\n  AA: MKV\n"))
	assert.Error(t, err)
}

func TestReadAnnotations_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fasta")
	require.NoError(t, os.WriteFile(path, []byte(annotations), 0644))

	chains, err := ReadAnnotations(path)
	require.NoError(t, err)
	assert.Len(t, chains, 2)
}

func TestReadAnnotations_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(annotations))
	}))
	defer server.Close()

	chains, err := ReadAnnotations(server.URL + "/ref.fasta")
	require.NoError(t, err)
	assert.Len(t, chains, 2)
}

func TestReadAnnotations_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := ReadAnnotations(server.URL + "/missing.fasta")
	assert.Error(t, err)
}

func TestReadAnnotations_MissingFile(t *testing.T) {
	_, err := ReadAnnotations(filepath.Join(t.TempDir(), "nope.fasta"))
	assert.Error(t, err)
}

func TestReadHorizontal_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pred.horiz")
	require.NoError(t, os.WriteFile(path, []byte("Pred: HHEE\nPred: CC\n"), 0644))

	seq, err := ReadHorizontal(path)
	require.NoError(t, err)
	assert.Equal(t, "HHEE--", seq.String())
}

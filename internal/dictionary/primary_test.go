package dictionary

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/words", r.URL.Path)
		assert.Equal(t, "zephyr", r.URL.Query().Get("sp"))
		assert.Equal(t, "df", r.URL.Query().Get("md"))
		assert.Equal(t, "1", r.URL.Query().Get("max"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"zephyr","defs":["n\ta gentle breeze"],"tags":["f:0.52"]}]`))
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, srv.Client())
	entry, err := c.Lookup(context.Background(), "ZEPHYR")
	require.NoError(t, err)

	assert.Equal(t, "a gentle breeze", entry.Definition)
	assert.InDelta(t, math.Log10(520), entry.Frequency, 1e-9)
}

func TestPrimaryClient_LookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, srv.Client())
	_, err := c.Lookup(context.Background(), "XQZPT")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrimaryClient_FuzzyMatchIsNotFound(t *testing.T) {
	// The API corrects near-misses; a response for a different word must not
	// verify the submitted one.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"zephyr","defs":["n\ta gentle breeze"]}]`))
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, srv.Client())
	_, err := c.Lookup(context.Background(), "ZEPHY")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrimaryClient_MissingDefsIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"zephyr","tags":["f:0.52"]}]`))
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, srv.Client())
	_, err := c.Lookup(context.Background(), "ZEPHYR")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrimaryClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, srv.Client())
	_, err := c.Lookup(context.Background(), "ZEPHYR")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestZipfFromTags(t *testing.T) {
	cases := []struct {
		name string
		tags []string
		want float64
	}{
		{"common word", []string{"f:9.67"}, math.Log10(9670)},
		{"ignores other tags", []string{"query:zephyr", "f:1"}, 3},
		{"missing", []string{"query:zephyr"}, 0},
		{"malformed", []string{"f:abc"}, 0},
		{"zero", []string{"f:0"}, 0},
		{"empty", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, zipfFromTags(tc.tags), 1e-9)
		})
	}
}

func TestCleanDefinition(t *testing.T) {
	assert.Equal(t, "a test of knowledge", cleanDefinition("n\ta test of knowledge"))
	assert.Equal(t, "no prefix here", cleanDefinition("no prefix here"))
}

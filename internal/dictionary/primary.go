package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PrimaryClient queries a Datamuse-compatible word API. One request returns
// both definitions and a words-per-million frequency tag.
type PrimaryClient struct {
	baseURL string
	client  *http.Client
}

func NewPrimaryClient(baseURL string, client *http.Client) *PrimaryClient {
	if client == nil {
		client = &http.Client{}
	}

	return &PrimaryClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

type primaryWord struct {
	Word string   `json:"word"`
	Defs []string `json:"defs"`
	Tags []string `json:"tags"`
}

func (c *PrimaryClient) Lookup(ctx context.Context, word string) (Entry, error) {
	q := url.Values{}
	q.Set("sp", strings.ToLower(word))
	q.Set("md", "df")
	q.Set("max", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/words?"+q.Encode(), nil)
	if err != nil {
		return Entry{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("query primary dictionary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var words []primaryWord
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&words); err != nil {
		return Entry{}, fmt.Errorf("decode response: %w", err)
	}

	if len(words) == 0 || !strings.EqualFold(words[0].Word, word) || len(words[0].Defs) == 0 {
		return Entry{}, ErrNotFound
	}

	return Entry{
		Definition: cleanDefinition(words[0].Defs[0]),
		Frequency:  zipfFromTags(words[0].Tags),
	}, nil
}

// cleanDefinition drops the part-of-speech prefix the API prepends to each
// definition ("n\ta test of knowledge").
func cleanDefinition(def string) string {
	if _, text, found := strings.Cut(def, "\t"); found {
		return text
	}

	return def
}

// zipfFromTags converts the API's words-per-million tag ("f:9.67") to the
// Zipf scale (log10 of frequency per billion words). Returns 0 when the tag
// is missing or malformed.
func zipfFromTags(tags []string) float64 {
	for _, tag := range tags {
		fpm, found := strings.CutPrefix(tag, "f:")
		if !found {
			continue
		}

		f, err := strconv.ParseFloat(fpm, 64)
		if err != nil || f <= 0 {
			return 0
		}

		return math.Log10(f * 1000)
	}

	return 0
}

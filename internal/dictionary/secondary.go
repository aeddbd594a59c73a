package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SecondaryClient queries a Wiktionary-style REST definition endpoint. It has
// no frequency signal and is used only as a fallback when the primary source
// does not know the word.
type SecondaryClient struct {
	baseURL string
	client  *http.Client
}

func NewSecondaryClient(baseURL string, client *http.Client) *SecondaryClient {
	if client == nil {
		client = &http.Client{}
	}

	return &SecondaryClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

type secondaryDefinition struct {
	Definition string `json:"definition"`
}

type secondaryUsage struct {
	PartOfSpeech string                `json:"partOfSpeech"`
	Definitions  []secondaryDefinition `json:"definitions"`
}

func (c *SecondaryClient) Lookup(ctx context.Context, word string) (Entry, error) {
	endpoint := c.baseURL + "/page/definition/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("query secondary dictionary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Entry{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var usages map[string][]secondaryUsage
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&usages); err != nil {
		return Entry{}, fmt.Errorf("decode response: %w", err)
	}

	for _, langUsages := range usages {
		for _, usage := range langUsages {
			for _, def := range usage.Definitions {
				if text := stripMarkup(def.Definition); text != "" {
					return Entry{Definition: text}, nil
				}
			}
		}
	}

	return Entry{}, ErrNotFound
}

// stripMarkup removes the inline HTML the wiki embeds in definition text.
func stripMarkup(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

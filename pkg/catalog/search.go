package catalog

import (
	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/pkg/recommend"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// similarSubjectLimit bounds how many subject queries FindSimilar issues
	// per call so a broad shelf does not fan out into dozens of requests.
	similarSubjectLimit = 4
	similarPageSize     = 20
)

// Search runs a raw Google Books query and maps the results to book entities.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*entity.Book, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("volumes request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volumes request failed: status %d", resp.StatusCode)
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	books := make([]*entity.Book, 0, len(payload.Items))
	for i := range payload.Items {
		v := &payload.Items[i]
		if strings.TrimSpace(v.VolumeInfo.Title) == "" {
			continue
		}
		books = append(books, toEntity(v))
	}
	return books, nil
}

// SearchByTitleAuthor looks a single title up, scoped to the author when known.
// Used to enrich LLM suggestions with real catalog metadata.
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) ([]*entity.Book, error) {
	query := fmt.Sprintf("intitle:%q", strings.TrimSpace(title))
	if author = strings.TrimSpace(author); author != "" {
		query += fmt.Sprintf("+inauthor:%q", author)
	}
	return c.Search(ctx, query, 5)
}

// FindSimilar fans out subject queries derived from the shelf's taste profile
// and returns deduplicated candidates. Failed queries are skipped rather than
// failing the whole lookup, so the caller may receive fewer (or zero) results.
func (c *Client) FindSimilar(ctx context.Context, profile *recommend.TasteProfile, limit int, seenTitles map[string]bool) ([]*entity.Book, error) {
	if profile == nil || limit <= 0 {
		return nil, nil
	}

	subjects := profile.Subjects(similarSubjectLimit)
	if len(subjects) == 0 {
		return nil, nil
	}

	if seenTitles == nil {
		seenTitles = make(map[string]bool)
	}

	var firstErr error
	candidates := make([]*entity.Book, 0, limit)
	for _, subject := range subjects {
		if len(candidates) >= limit {
			break
		}
		query := fmt.Sprintf("subject:%q", subject)
		books, err := c.Search(ctx, query, similarPageSize)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, book := range books {
			if len(candidates) >= limit {
				break
			}
			key := book.NormalizedTitle()
			if key == "" || seenTitles[key] {
				continue
			}
			seenTitles[key] = true
			candidates = append(candidates, book)
		}
	}

	if len(candidates) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return candidates, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/d60-Lab/shelf/internal/model"
)

// GoogleBooks is a client for the Google Books volumes API.
type GoogleBooks struct {
	client  *http.Client
	baseURL string
}

func NewGoogleBooks(client *http.Client, baseURL string) *GoogleBooks {
	return &GoogleBooks{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Description   string   `json:"description"`
		PublishedDate string   `json:"publishedDate"`
		Authors       []string `json:"authors"`
		Categories    []string `json:"categories"`
		AverageRating float64  `json:"averageRating"`
		ImageLinks    *struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (g *GoogleBooks) Search(ctx context.Context, query string) ([]Metadata, error) {
	q := url.Values{"q": {query}, "maxResults": {"20"}}
	var body struct {
		Items []volume `json:"items"`
	}
	if err := g.get(ctx, "/volumes?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	out := make([]Metadata, 0, len(body.Items))
	for _, v := range body.Items {
		out = append(out, toBookMetadata(v))
	}
	return out, nil
}

func (g *GoogleBooks) Lookup(ctx context.Context, id string) (Metadata, error) {
	var v volume
	if err := g.get(ctx, "/volumes/"+url.PathEscape(id), &v); err != nil {
		return Metadata{}, err
	}
	if v.ID == "" {
		v.ID = id
	}
	return toBookMetadata(v), nil
}

func toBookMetadata(v volume) Metadata {
	info := v.VolumeInfo
	md := Metadata{
		ID:          v.ID,
		Type:        model.ContentBook,
		Title:       info.Title,
		Description: info.Description,
		Year:        yearOf(info.PublishedDate),
		Authors:     strings.Join(info.Authors, ", "),
		Genre:       strings.Join(info.Categories, ", "),
		Rating:      info.AverageRating,
	}
	if info.ImageLinks != nil {
		md.ImageURL = info.ImageLinks.Thumbnail
	}
	return md
}

func (g *GoogleBooks) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode books response: %v", ErrUpstream, err)
	}
	return nil
}

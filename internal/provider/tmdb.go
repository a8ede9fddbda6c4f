package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/d60-Lab/shelf/internal/model"
)

// TMDB is a client for the themoviedb.org v3 API.
type TMDB struct {
	client    *http.Client
	baseURL   string
	imageBase string
	apiKey    string
}

func NewTMDB(client *http.Client, baseURL, imageBase, apiKey string) *TMDB {
	return &TMDB{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		imageBase: strings.TrimRight(imageBase, "/"),
		apiKey:    apiKey,
	}
}

type tmdbMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (t *TMDB) Search(ctx context.Context, query string) ([]Metadata, error) {
	q := url.Values{"api_key": {t.apiKey}, "query": {query}}
	var body struct {
		Results []tmdbMovie `json:"results"`
	}
	if err := t.get(ctx, "/search/movie?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	out := make([]Metadata, 0, len(body.Results))
	for _, m := range body.Results {
		out = append(out, t.toMetadata(m))
	}
	return out, nil
}

func (t *TMDB) Lookup(ctx context.Context, id string) (Metadata, error) {
	var m tmdbMovie
	q := url.Values{"api_key": {t.apiKey}}
	if err := t.get(ctx, "/movie/"+url.PathEscape(id)+"?"+q.Encode(), &m); err != nil {
		return Metadata{}, err
	}
	return t.toMetadata(m), nil
}

func (t *TMDB) toMetadata(m tmdbMovie) Metadata {
	md := Metadata{
		ID:          strconv.FormatInt(m.ID, 10),
		Type:        model.ContentMovie,
		Title:       m.Title,
		Description: m.Overview,
		Year:        yearOf(m.ReleaseDate),
		Rating:      m.VoteAverage,
	}
	if m.PosterPath != "" {
		md.ImageURL = t.imageBase + m.PosterPath
	}
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	md.Genre = strings.Join(names, ", ")
	return md
}

func (t *TMDB) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode tmdb response: %v", ErrUpstream, err)
	}
	return nil
}

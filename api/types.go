package api

import (
	"time"

	"github.com/techpress/newsfeed/core"
)

// ArticleResponse is the JSON shape of one article. The embedding vector is
// internal and never serialized.
type ArticleResponse struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Category    string            `json:"category"`
	Source      string            `json:"source"`
	PublishedAt time.Time         `json:"published_at"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ListResponse is the JSON shape of a listing page.
type ListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Count    int               `json:"count"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// SearchResponse is the JSON shape of a semantic search result.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []ArticleResponse `json:"results"`
	Count   int               `json:"count"`
}

func toArticleResponse(article *core.Article) ArticleResponse {
	return ArticleResponse{
		ID:          article.ID,
		URL:         article.URL,
		Title:       article.Title,
		Content:     article.Content,
		Category:    article.Category.String(),
		Source:      article.Source,
		PublishedAt: article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		Metadata:    article.Metadata,
	}
}

func toArticleResponses(articles []*core.Article) []ArticleResponse {
	out := make([]ArticleResponse, len(articles))
	for i, article := range articles {
		out[i] = toArticleResponse(article)
	}
	return out
}

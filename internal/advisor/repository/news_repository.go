package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"

	"github.com/mmcdole/gofeed"
)

// NewsRepository reads market headlines from an RSS or Atom feed.
type NewsRepository interface {
	LatestHeadlines(ctx context.Context, limit int) ([]dto.Headline, error)
}

type newsRepository struct {
	parser  *gofeed.Parser
	feedURL string
}

func NewNewsRepository(feedURL string) NewsRepository {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 15 * time.Second}
	parser.UserAgent = "Mozilla/5.0"
	return &newsRepository{parser: parser, feedURL: feedURL}
}

func (r *newsRepository) LatestHeadlines(ctx context.Context, limit int) ([]dto.Headline, error) {
	if r.feedURL == "" {
		return nil, nil
	}

	feed, err := r.parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", r.feedURL, err)
	}

	headlines := make([]dto.Headline, 0, limit)
	for _, item := range feed.Items {
		if limit > 0 && len(headlines) >= limit {
			break
		}
		published := item.Published
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format("2006-01-02")
		}
		headlines = append(headlines, dto.Headline{Title: item.Title, Published: published})
	}
	return headlines, nil
}

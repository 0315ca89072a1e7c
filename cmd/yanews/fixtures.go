package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"yaapps/model"
)

const fixtureDateLayout = "2006-01-02"

type newsFixture struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Date  string `json:"date"`
}

type newsCreator interface {
	CreateNews(ctx context.Context, title, text string, date time.Time) (*model.News, error)
}

func loadFixtures(ctx context.Context, path string, news newsCreator) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return importFixtures(ctx, f, news)
}

// importFixtures reads a JSON array of {title, text, date}; date is
// YYYY-MM-DD and defaults to today.
func importFixtures(ctx context.Context, r io.Reader, news newsCreator) (int, error) {
	var items []newsFixture
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}

	for i, item := range items {
		date := time.Now().UTC().Truncate(24 * time.Hour)
		if item.Date != "" {
			parsed, err := time.Parse(fixtureDateLayout, item.Date)
			if err != nil {
				return i, fmt.Errorf("fixture %d: bad date %q: %w", i, item.Date, err)
			}
			date = parsed
		}
		if _, err := news.CreateNews(ctx, item.Title, item.Text, date); err != nil {
			return i, fmt.Errorf("fixture %d: %w", i, err)
		}
	}
	return len(items), nil
}

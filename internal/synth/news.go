package synth

import (
	"fmt"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
)

const DefaultNewsLimit = 5

var newsSources = []string{
	"Reuters",
	"Bloomberg",
	"CNBC",
	"MarketWatch",
	"The Wall Street Journal",
	"Financial Times",
}

var headlineTemplates = []string{
	"%s shares swing as traders weigh earnings outlook",
	"%s in focus after analyst note flags margin pressure",
	"Why %s is moving against the broader S&P 500 today",
	"%s extends recent run as sector rotation continues",
	"Options activity in %s picks up ahead of quarterly report",
	"%s dips as Nasdaq momentum cools",
}

var summaryTemplates = []string{
	"Investors repositioned in %s amid a mixed session for the major indices.",
	"Analysts remain split on %s as volume came in above the 30-day average.",
	"The move in %s tracks a wider shift across its sector peers.",
	"Desk commentary points to flows into %s from index rebalancing.",
}

// GenerateNews builds limit reproducible headlines for symbol, newest
// first. Item i is pushed back i hours times a multiplier in [1, 48).
func GenerateNews(symbol string, limit int, now time.Time) []models.NewsItem {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	r := NewKeyed(symbol, "news")

	items := make([]models.NewsItem, 0, limit)
	for i := 0; i < limit; i++ {
		mult := r.Between(1, 48)
		offset := time.Duration(float64(i) * mult * float64(time.Hour))

		source := newsSources[int(r.Float64()*float64(len(newsSources)))]
		headline := fmt.Sprintf(headlineTemplates[int(r.Float64()*float64(len(headlineTemplates)))], symbol)
		summary := fmt.Sprintf(summaryTemplates[int(r.Float64()*float64(len(summaryTemplates)))], symbol)

		items = append(items, models.NewsItem{
			ID:          fmt.Sprintf("%s-%d", strings.ToLower(symbol), i+1),
			Source:      source,
			Headline:    headline,
			URL:         fmt.Sprintf("https://news.example.com/%s/%d", strings.ToLower(symbol), i+1),
			PublishedAt: now.Add(-offset),
			Summary:     summary,
		})
	}
	return items
}

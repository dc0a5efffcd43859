package news

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketreport/internal/models"
)

type stubSource map[string][]models.Article

func (s stubSource) Fetch(_ context.Context, query, _ string, _ int) []models.Article {
	return s[query]
}

func (s stubSource) Name() string { return "stub" }

func TestCapture_ReplaysThroughFileSource(t *testing.T) {
	src := stubSource{
		"crypto": {
			{Title: models.StringPtr("Bitcoin rallies"), URL: models.StringPtr("https://example.com/a")},
			{Title: models.StringPtr("Ether slips")},
		},
	}

	doc := Capture(context.Background(), src, []string{"crypto", "stock market"}, "en", 5)

	require.NotNil(t, doc.CapturedAt)
	assert.Len(t, doc.Queries["crypto"], 2)
	assert.NotNil(t, doc.Queries["stock market"])
	assert.Empty(t, doc.Queries["stock market"])

	path := filepath.Join(t.TempDir(), "nested", "capture.json")
	require.NoError(t, doc.Save(path))

	replay := NewFileSource(path, nil)

	got := replay.Fetch(context.Background(), "crypto", "en", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Bitcoin rallies", got[0].DisplayTitle())
	assert.Equal(t, "https://example.com/a", got[0].DisplayURL())
	assert.Equal(t, models.NotAvailable, got[1].DisplayURL())

	// A query that was empty at capture time stays empty on replay.
	assert.Empty(t, replay.Fetch(context.Background(), "stock market", "en", 5))
}

func TestCapture_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := Capture(ctx, stubSource{}, []string{"crypto"}, "en", 5)

	assert.Empty(t, doc.Queries)
}

func TestLoadDocument_Missing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCapture_ReplayKeepsCapturedQueryOrder(t *testing.T) {
	queries := []string{"stock market", "crypto", "bitcoin"}
	src := stubSource{
		"stock market": {{Title: models.StringPtr("Stocks rise")}},
		"bitcoin":      {{Title: models.StringPtr("Bitcoin rallies")}},
	}

	doc := Capture(context.Background(), src, queries, "en", 5)
	assert.Equal(t, queries, doc.Order)

	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, doc.Save(path))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, queries, loaded.ReplayQueries())
}

func TestDocument_ReplayQueries(t *testing.T) {
	one := []models.Article{{}}

	tests := []struct {
		name string
		doc  Document
		want []string
	}{
		{"no per-query lists", Document{Articles: one}, []string{AllQuery}},
		{"without order falls back to sorted keys", Document{Queries: map[string][]models.Article{"crypto": one, "bitcoin": one}}, []string{"bitcoin", "crypto"}},
		{
			"order first, unlisted keys after",
			Document{
				Queries: map[string][]models.Article{"stock market": one, "crypto": one, "bitcoin": nil, "zinc": one},
				Order:   []string{"stock market", "gone", "crypto", "stock market"},
			},
			[]string{"stock market", "crypto", "bitcoin", "zinc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.ReplayQueries())
		})
	}
}

func TestDocument_MaxArticles(t *testing.T) {
	many := make([]models.Article, 20)

	assert.Equal(t, 20, (&Document{Articles: many}).MaxArticles())
	assert.Equal(t, 20, (&Document{Articles: many[:2], Queries: map[string][]models.Article{"crypto": many}}).MaxArticles())
	assert.Zero(t, (&Document{}).MaxArticles())
}

func TestReplay_PlainResponseKeepsEveryArticle(t *testing.T) {
	doc := &Document{Status: "ok", Articles: make([]models.Article, 20)}

	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, doc.Save(path))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)

	src := NewFileSource(path, nil)
	got := src.Fetch(context.Background(), loaded.ReplayQueries()[0], "en", loaded.MaxArticles())

	assert.Len(t, got, 20)
}

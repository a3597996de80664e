package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/mocks"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/content-graph-api/internal/slug"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// seedArticles fills an in-memory article collection with n articles spread over 10 categories
func seedArticles(b *testing.B, n int) (*mocks.MockArticleRepository, []string) {
	b.Helper()
	repo := mocks.NewMockArticleRepository()
	categories := make([]string, 10)
	for i := range categories {
		categories[i] = uuid.NewString()
	}
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), &models.Article{
			ID:         uuid.NewString(),
			Title:      fmt.Sprintf("Article %06d", i),
			Content:    "lorem ipsum dolor sit amet",
			GUID:       fmt.Sprintf("article-%06d", i),
			Categories: []string{categories[i%len(categories)]},
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return repo, categories
}

// BenchmarkListArticlesPaged benchmarks a scoped, searched, sorted page over 5000 articles
func BenchmarkListArticlesPaged(b *testing.B) {
	repo, categories := seedArticles(b, 5000)
	q := query.Query{
		Pagination: query.Pagination{Page: 3, PageSize: 20},
		Filter:     query.Filter{}.AndAny(query.Match("title", "article 00"), query.Match("content", "nothing")),
		Order:      []query.Sort{{Field: "createdAt", Desc: true}},
		Paging:     true,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		result, err := query.Run[*models.Article](context.Background(), repo, q, query.Contains("categories", categories[i%len(categories)]))
		if err != nil {
			b.Fatal(err)
		}
		if result.TotalResults == 0 {
			b.Fatal("expected matches")
		}
	}

	b.ReportMetric(float64(5000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkCompileSQL benchmarks rendering a list plan to SQL
func BenchmarkCompileSQL(b *testing.B) {
	plan := query.Build(query.Query{
		Pagination: query.Pagination{Page: 2, PageSize: 25},
		Filter:     query.Filter{}.AndAny(query.Match("title", "go"), query.Match("description", "go")),
		Order:      []query.Sort{{Field: "createdAt", Desc: true}, {Field: "title"}},
		Paging:     true,
	}, query.Contains("tags", uuid.NewString()), query.IsNull("coverImage"))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := repository.ArticleSchema.Compile(plan); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSlug benchmarks locale-aware slug normalisation
func BenchmarkSlug(b *testing.B) {
	titles := []string{"Teknoloji Haberleri", "İSTANBUL'da Işık Şöleni", "Crème Brûlée & Straße", "Go 1.21 Release Notes"}
	tr := language.Turkish

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		slug.Make(titles[i%len(titles)], tr)
	}
}

// BenchmarkProvisionTags benchmarks resolving a mix of new and existing tag labels
func BenchmarkProvisionTags(b *testing.B) {
	cfg := &config.Config{Content: config.ContentConfig{SlugLocale: "tr"}}
	services := service.NewServices(mocks.NewRepositories(), mocks.NewMockStorage(), cfg, zerolog.Nop())
	ctx := context.Background()

	labels := make([]string, 8)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for j := range labels {
			// half the labels repeat across iterations
			if j%2 == 0 {
				labels[j] = fmt.Sprintf("Shared %d", j)
			} else {
				labels[j] = fmt.Sprintf("Fresh %d-%d", i, j)
			}
		}
		if _, err := services.Tags.Provision(ctx, labels); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(len(labels)*b.N)/b.Elapsed().Seconds(), "labels/sec")
}

// BenchmarkRemoveCategoryReferences benchmarks stripping one category from 5000 articles
func BenchmarkRemoveCategoryReferences(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		repo, categories := seedArticles(b, 5000)
		b.StartTimer()

		n, err := repo.RemoveCategories(context.Background(), categories[:1])
		if err != nil {
			b.Fatal(err)
		}
		if n != 500 {
			b.Fatalf("expected 500 modified, got %d", n)
		}
	}
}

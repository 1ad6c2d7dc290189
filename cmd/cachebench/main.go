// Command cachebench measures public post list latency with and without the Redis list cache.
//
// Knobs: POSTS (default 5000), REQS (default 3000), REDIS_ADDR (defaults to an in-process miniredis).
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/database"
)

type scenarioResult struct {
	durations []time.Duration
	cacheKeys int
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)
	mustDo(database.Migrate(db))

	postCount := envInt("POSTS", 5000)
	reqCount := envInt("REQS", 3000)

	fmt.Println("Setting up test data...")
	tagSlugs := seedPosts(db, postCount)
	fmt.Printf("Test data ready: %d published posts, %d tags\n", postCount, len(tagSlugs))

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Redis.Addr
	}
	if redisAddr == "" {
		mr := must(miniredis.Run())
		defer mr.Close()
		redisAddr = mr.Addr()
		fmt.Println("Using in-process miniredis at", redisAddr)
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	posts := repository.NewPostRepository(db)
	likes := repository.NewLikeRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	comments := repository.NewCommentRepository(db)
	newBlog := func(pc *cache.PostCache) service.BlogService {
		return service.NewBlogService(posts, likes, bookmarks, comments, pc, nil)
	}

	reqs := makeRequests(reqCount, tagSlugs)
	listCache := cache.NewPostCache(client, 10*time.Minute)

	noCache := runScenario(ctx, newBlog(cache.NewPostCache(nil, 0)), reqs, false, client)
	cached := runScenario(ctx, newBlog(listCache), reqs, true, client)

	// 每 50 次读插入一次写，模拟后台发文导致的版本号失效
	mixed := runScenario(ctx, newBlog(listCache), reqs, true, client, func(i int) {
		if i%50 == 0 {
			listCache.InvalidateLists(ctx)
		}
	})

	fmt.Printf("\nPublic list latency (%d req, %d posts)\n", len(reqs), postCount)
	for _, row := range []struct {
		name string
		res  scenarioResult
	}{
		{"No cache", noCache},
		{"List cache", cached},
		{"Cache + writes", mixed},
	} {
		fmt.Printf("%-16s avg=%v p95=%v p99=%v cache_keys=%d\n",
			row.name, avg(row.res.durations), pct(row.res.durations, 0.95), pct(row.res.durations, 0.99), row.res.cacheKeys)
	}
}

func seedPosts(db *gorm.DB, n int) []string {
	suffix := strconv.FormatInt(time.Now().Unix(), 36)
	author := model.User{ID: uuid.NewString(), Username: "bench" + suffix, Email: "bench" + suffix + "@example.com", Password: "secret", Role: model.RoleAuthor}
	mustDo(db.Create(&author).Error)

	tags := make([]model.Tag, 8)
	slugs := make([]string, len(tags))
	for i := range tags {
		slugs[i] = fmt.Sprintf("bench-%s-%d", suffix, i)
		tags[i] = model.Tag{ID: uuid.NewString(), Name: slugs[i], Slug: slugs[i]}
	}
	mustDo(db.Create(&tags).Error)

	base := time.Now().UTC()
	rows := make([]model.Post, n)
	for i := range rows {
		published := base.Add(-time.Duration(i) * time.Minute)
		rows[i] = model.Post{
			ID:          uuid.NewString(),
			AuthorID:    author.ID,
			Title:       fmt.Sprintf("Bench post %d", i),
			Slug:        fmt.Sprintf("bench-post-%s-%d", suffix, i),
			Excerpt:     "A post generated for the list cache benchmark.",
			Content:     strings.Repeat("<p>lorem ipsum dolor sit amet</p>", 20),
			Status:      model.PostStatusPublished,
			ReadingMins: 1,
			ViewCount:   int64(i % 500),
			PublishedAt: &published,
			Tags:        []model.Tag{tags[i%len(tags)]},
		}
	}
	mustDo(db.CreateInBatches(&rows, 500).Error)
	return slugs
}

func runScenario(ctx context.Context, blog service.BlogService, reqs []service.PublicListQuery, warm bool, client *redis.Client, between ...func(int)) scenarioResult {
	client.FlushAll(ctx)

	if warm {
		fmt.Print("  Warming cache...")
		for _, q := range reqs {
			must(blog.List(ctx, q))
		}
		fmt.Println(" done")
	}

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for i, q := range reqs {
		for _, fn := range between {
			fn(i)
		}
		start := time.Now()
		must(blog.List(ctx, q))
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "*").Result()
	return scenarioResult{durations: out, cacheKeys: len(keys)}
}

// makeRequests 大部分请求落在首页，少量翻页、按标签和搜索
func makeRequests(n int, tagSlugs []string) []service.PublicListQuery {
	sorts := []string{"latest", "latest", "latest", "popular", "oldest"}
	out := make([]service.PublicListQuery, n)
	rnd := rand.New(rand.NewSource(42))
	for i := range out {
		q := service.PublicListQuery{Page: 1, Limit: service.DefaultPageSize, Sort: sorts[rnd.Intn(len(sorts))]}
		if rnd.Float64() > 0.72 {
			q.Page = 2 + rnd.Intn(40)
		}
		switch r := rnd.Float64(); {
		case r < 0.15:
			q.Tag = tagSlugs[rnd.Intn(len(tagSlugs))]
		case r < 0.2:
			q.Search = fmt.Sprintf("post %d", rnd.Intn(100))
		}
		out[i] = q
	}
	return out
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

// Command seed fills a database with demo users, taxonomy, posts and interactions.
//
// Knobs: USERS (default 20), POSTS per author (default 5), CONC (default 4).
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/database"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var (
	tagNames      = []string{"Go", "Databases", "Distributed Systems", "Frontend", "DevOps", "Career"}
	categoryNames = []string{"Tutorials", "Opinion", "News"}
)

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()
	db := must(database.InitDB(cfg))
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	nUsers := envInt("USERS", 20)
	nPosts := envInt("POSTS", 5)
	conc := envInt("CONC", 4)

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	tags := repository.NewTagRepository(db)
	categories := repository.NewCategoryRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	follows := repository.NewFollowRepository(db)

	// 种子数据不走缓存
	postCache := cache.NewPostCache(nil, 0)
	views := service.NewViewRecorder(posts, 1)
	blog := service.NewBlogService(posts, likes, bookmarks, comments, postCache, views)
	authSvc := service.NewAuthService(users, auth.NewTokenManager(cfg.JWT, cfg.Session))
	postSvc := service.NewPostService(posts, tags, categories, postCache, nil)
	userSvc := service.NewUserService(users)
	taxSvc := service.NewTaxonomyService(tags, categories, postCache)
	commentSvc := service.NewCommentService(comments, posts, blog)
	interactionSvc := service.NewInteractionService(likes, bookmarks, posts, blog)
	relSvc := service.NewRelationshipService(follows, users)

	ctx := context.Background()
	t0 := time.Now()

	tagIDs := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := taxSvc.CreateTag(ctx, service.TaxonomyInput{Name: name})
		if err != nil {
			skipExisting(err, "tag", name)
			continue
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	categoryIDs := make([]string, 0, len(categoryNames))
	for _, name := range categoryNames {
		cat, err := taxSvc.CreateCategory(ctx, service.TaxonomyInput{Name: name})
		if err != nil {
			skipExisting(err, "category", name)
			continue
		}
		categoryIDs = append(categoryIDs, cat.ID)
	}

	// 第一个注册的用户是管理员，由它把每三个用户里的一个升为作者
	seeded := make([]service.Actor, 0, nUsers)
	var admin service.Actor
	suffix := time.Now().Format("0102150405")
	for i := 0; i < nUsers; i++ {
		name := fmt.Sprintf("user%d%s", i, suffix)
		res, err := authSvc.Register(ctx, service.RegisterInput{
			Username: name,
			Email:    name + "@example.com",
			Password: "password123",
			Name:     fmt.Sprintf("Demo User %d", i),
		})
		if err != nil {
			logger.Warn("seed: register failed", zap.String("username", name), zap.Error(err))
			continue
		}
		a := service.Actor{UserID: res.User.ID, Role: res.User.Role}
		if a.IsAdmin() && admin.UserID == "" {
			admin = a
		}
		if a.Role == model.RoleUser && i%3 == 1 && admin.UserID != "" {
			if _, err := userSvc.SetRole(ctx, admin, a.UserID, model.RoleAuthor); err != nil {
				panic(err)
			}
			a.Role = model.RoleAuthor
		}
		seeded = append(seeded, a)
	}

	var slugs []string
	for _, a := range seeded {
		if !a.Role.CanWrite() {
			continue
		}
		for j := 0; j < nPosts; j++ {
			status := model.PostStatusPublished
			if j%4 == 3 {
				status = model.PostStatusDraft
			}
			p, err := postSvc.Create(ctx, a, service.CreatePostInput{
				Title:       fmt.Sprintf("Notes on %s, part %d", pick(tagNames), j+1),
				Content:     demoContent,
				Status:      status,
				TagIDs:      sample(tagIDs, 2),
				CategoryIDs: sample(categoryIDs, 1),
			})
			if err != nil {
				panic(err)
			}
			if status == model.PostStatusPublished {
				slugs = append(slugs, p.Slug)
			}
		}
	}

	// 读者互动：并发关注、点赞、收藏、评论
	feed := make(chan service.Actor, len(seeded))
	for _, a := range seeded {
		feed <- a
	}
	close(feed)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stats = map[string]int{}
	)
	for w := 0; w < min(conc, max(1, len(seeded))); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range feed {
				n := interact(ctx, a, seeded, slugs, relSvc, interactionSvc, commentSvc)
				mu.Lock()
				for k, v := range n {
					stats[k] += v
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	fmt.Printf("USERS=%d, POSTS=%d, CONC=%d\n", len(seeded), len(slugs), conc)
	fmt.Printf("follows=%d likes=%d bookmarks=%d comments=%d\n",
		stats["follows"], stats["likes"], stats["bookmarks"], stats["comments"])
	fmt.Printf("done in %v\n", time.Since(t0))
}

func interact(
	ctx context.Context,
	a service.Actor,
	everyone []service.Actor,
	slugs []string,
	rel service.RelationshipService,
	interactions service.InteractionService,
	comments service.CommentService,
) map[string]int {
	n := map[string]int{}
	for _, other := range everyone {
		if other.UserID == a.UserID || !other.Role.CanWrite() || rand.IntN(2) == 0 {
			continue
		}
		if _, err := rel.ToggleFollow(ctx, a.UserID, other.UserID); err == nil {
			n["follows"]++
		}
	}
	for _, slug := range slugs {
		switch rand.IntN(4) {
		case 0:
			if _, err := interactions.ToggleLike(ctx, a.UserID, slug); err == nil {
				n["likes"]++
			}
		case 1:
			if _, err := interactions.ToggleBookmark(ctx, a.UserID, slug); err == nil {
				n["bookmarks"]++
			}
		case 2:
			if _, err := comments.Create(ctx, a, slug, service.CommentInput{Content: "Thanks for writing this up!"}); err == nil {
				n["comments"]++
			}
		}
	}
	return n
}

func skipExisting(err error, kind, name string) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Code == apperr.CodeAlreadyExists {
		logger.Info("seed: already exists", zap.String("kind", kind), zap.String("name", name))
		return
	}
	panic(err)
}

func pick(xs []string) string { return xs[rand.IntN(len(xs))] }

func sample(xs []string, k int) []string {
	if len(xs) == 0 {
		return nil
	}
	out := make([]string, 0, k)
	for _, i := range rand.Perm(len(xs))[:min(k, len(xs))] {
		out = append(out, xs[i])
	}
	return out
}

const demoContent = `<h2>Introduction</h2>
<p>This is a demo post created by the seed command. It has a few paragraphs so that
excerpts and reading time have something to work with.</p>
<ul><li>First point</li><li>Second point</li></ul>
<pre><code>fmt.Println("hello, blog")</code></pre>
<p>Thanks for reading.</p>`

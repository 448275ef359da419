// cachebench 对比评论详情读取（评论 -> 帖子 -> 状态逐级回填）在不同缓存后端下的延迟与命中率。
//
//	N        帖子数（默认 5000），状态数为 N/10，评论数为 2N
//	REQ      请求数（默认 20000），评论 id 按 zipf 分布抽取
//	CHURN    每隔多少次读取修改一次状态，触发缓存失效（默认 200，0 表示不修改）
//	DATABASE_URL  设置时使用 PostgreSQL，否则使用 sqlite 内存库
//	REDIS_ADDR    设置时使用外部 Redis，否则使用进程内 miniredis
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
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/internal/service"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/database"
)

type services struct {
	statuses service.PostStatusService
	comments service.CommentService
}

type scenarioResult struct {
	durations   []time.Duration
	stats       cache.Stats
	updates     int
	cacheKeys   int64
	memoryBytes int64
}

func main() {
	ctx := context.Background()

	postCount := envInt("N", 5000)
	reqCount := envInt("REQ", 20000)
	churn := envInt("CHURN", 200)

	db := must(openDB())
	defer database.Close(db)

	fmt.Println("Setting up test data...")
	statusIDs, commentIDs := seed(db, postCount)
	fmt.Printf("Test data ready: %d statuses, %d posts, %d comments\n", len(statusIDs), postCount, len(commentIDs))

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		mr := must(miniredis.Run())
		defer mr.Close()
		redisAddr = mr.Addr()
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	reqs := makeRequests(commentIDs, reqCount)

	noCache := runScenario(ctx, db, nil, reqs, statusIDs, churn, false)
	lruCold := runScenario(ctx, db, must(cache.NewLRU(len(commentIDs)*2, 10*time.Minute)), reqs, statusIDs, churn, false)
	lruWarm := runScenario(ctx, db, must(cache.NewLRU(len(commentIDs)*2, 10*time.Minute)), reqs, statusIDs, churn, true)

	mustDo(rdb.FlushAll(ctx).Err())
	redisCold := runScenario(ctx, db, cache.NewRedis(rdb, 10*time.Minute), reqs, statusIDs, churn, false)
	redisCold.cacheKeys, redisCold.memoryBytes = redisUsage(ctx, rdb)

	mustDo(rdb.FlushAll(ctx).Err())
	redisWarm := runScenario(ctx, db, cache.NewRedis(rdb, 10*time.Minute), reqs, statusIDs, churn, true)
	redisWarm.cacheKeys, redisWarm.memoryBytes = redisUsage(ctx, rdb)

	fmt.Printf("\nComment detail latency (%d req, %d comments, churn every %d)\n", len(reqs), len(commentIDs), churn)
	report("No cache", noCache)
	report("LRU cold", lruCold)
	report("LRU warm", lruWarm)
	report("Redis cold", redisCold)
	report("Redis warm", redisWarm)
}

func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return database.NewMemory()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = dsn
	cfg.Database.LogLevel = "silent"
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	// 清理上一次的数据
	for _, table := range []string{"comment", "post", "post_status"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return nil, err
		}
	}
	return db, database.Migrate(db)
}

func seed(db *gorm.DB, postCount int) (statusIDs, commentIDs []int64) {
	base := time.Now().UTC().Truncate(time.Minute)

	statuses := make([]model.PostStatus, max(postCount/10, 1))
	for i := range statuses {
		statuses[i] = model.PostStatus{Status: fmt.Sprintf("status_%d", i)}
	}
	mustDo(db.CreateInBatches(&statuses, 1000).Error)

	posts := make([]model.Post, postCount)
	for i := range posts {
		content := strings.Repeat("lorem ipsum ", 20+i%40)
		posts[i] = model.Post{
			Title:        fmt.Sprintf("post_%d", i),
			Content:      &content,
			CreateTime:   base.Add(-time.Duration(i) * time.Minute),
			UpdateTime:   base,
			PostStatusID: statuses[i%len(statuses)].ID,
		}
	}
	mustDo(db.Omit("PostStatus").CreateInBatches(&posts, 1000).Error)

	comments := make([]model.Comment, postCount*2)
	for i := range comments {
		comments[i] = model.Comment{
			Content:    fmt.Sprintf("comment_%d", i),
			CreateTime: base.Add(-time.Duration(i) * time.Second),
			PostID:     posts[i%len(posts)].ID,
		}
	}
	mustDo(db.Omit("Post").CreateInBatches(&comments, 1000).Error)

	for _, s := range statuses {
		statusIDs = append(statusIDs, *s.ID)
	}
	for _, c := range comments {
		commentIDs = append(commentIDs, *c.ID)
	}
	return statusIDs, commentIDs
}

func newServices(db *gorm.DB, c cache.Cache) services {
	statusRepo := repository.NewPostStatusRepository(db)
	postRepo := repository.NewPostRepository(db)
	statuses := service.NewPostStatusService(statusRepo, c)
	posts := service.NewPostService(postRepo, statusRepo, statuses, c)
	return services{
		statuses: statuses,
		comments: service.NewCommentService(repository.NewCommentRepository(db), postRepo, posts, c),
	}
}

func runScenario(ctx context.Context, db *gorm.DB, c cache.Cache, reqs, statusIDs []int64, churn int, warm bool) scenarioResult {
	sv := newServices(db, c)

	if warm {
		fmt.Print("  Warming cache...")
		for _, id := range reqs {
			must(sv.comments.FindOne(ctx, id))
		}
		fmt.Println(" done")
	}

	var before cache.Stats
	if c != nil {
		before = c.Stats()
	}

	fmt.Print("  Running benchmark...")
	rnd := rand.New(rand.NewSource(7))
	out := make([]time.Duration, 0, len(reqs))
	updates := 0
	for i, id := range reqs {
		if churn > 0 && i > 0 && i%churn == 0 {
			sid := statusIDs[rnd.Intn(len(statusIDs))]
			name := fmt.Sprintf("status_%d_v%d", sid, i)
			must(sv.statuses.PartialUpdate(ctx, sid, &model.PostStatusPatch{ID: &sid, Status: &name}))
			updates++
		}
		start := time.Now()
		must(sv.comments.FindOne(ctx, id))
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	res := scenarioResult{durations: out, updates: updates}
	if c != nil {
		after := c.Stats()
		res.stats = cache.Stats{Hits: after.Hits - before.Hits, Misses: after.Misses - before.Misses}
	}
	return res
}

func report(name string, r scenarioResult) {
	ratio := 0.0
	if total := r.stats.Hits + r.stats.Misses; total > 0 {
		ratio = float64(r.stats.Hits) / float64(total)
	}
	mem := "-"
	if r.memoryBytes > 0 {
		mem = formatBytes(r.memoryBytes)
	}
	fmt.Printf("%-12s avg=%v p50=%v p95=%v p99=%v hits=%d misses=%d hit_ratio=%.2f updates=%d cache_keys=%d mem=%s\n",
		name, avg(r.durations), pct(r.durations, 0.50), pct(r.durations, 0.95), pct(r.durations, 0.99),
		r.stats.Hits, r.stats.Misses, ratio, r.updates, r.cacheKeys, mem,
	)
}

// makeRequests 少数热门评论占大部分读取
func makeRequests(ids []int64, n int) []int64 {
	rnd := rand.New(rand.NewSource(42))
	zipf := rand.NewZipf(rnd, 1.1, 1, uint64(len(ids)-1))
	perm := rnd.Perm(len(ids))
	out := make([]int64, n)
	for i := range out {
		out[i] = ids[perm[zipf.Uint64()]]
	}
	return out
}

func redisUsage(ctx context.Context, client *redis.Client) (int64, int64) {
	keys, _ := client.DBSize(ctx).Result()
	info, err := client.Info(ctx, "memory").Result()
	if err != nil {
		return keys, 0
	}
	return keys, parseRedisMemory(info)
}

// parseRedisMemory 从 INFO memory 中取 used_memory；miniredis 不提供时返回 0
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
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

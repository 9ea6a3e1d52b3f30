package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/cache"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/internal/service"
)

type request struct {
	page int
	size int
}

func main() {
	ctx := context.Background()

	// Use PostgreSQL for realistic testing
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=postgres port=5434 sslmode=disable"
	}

	db := must(gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true}))

	// Clean up existing test data
	mustDo(db.Exec("DROP TABLE IF EXISTS topic_votes CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS topic_options CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS topic_comments CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS trending_topics CASCADE").Error)

	mustDo(db.AutoMigrate(&model.TrendingTopic{}, &model.TopicOption{}, &model.TopicVote{}, &model.TopicComment{}))

	const (
		topicCount = 5000
		reqCount   = 9000
	)

	fmt.Println("Setting up test data...")

	rnd := rand.New(rand.NewSource(42))
	base := time.Now()
	topics := make([]model.TrendingTopic, topicCount)
	for i := 0; i < topicCount; i++ {
		up := int64(rnd.Intn(5000))
		down := int64(rnd.Intn(1000))
		topics[i] = model.TrendingTopic{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("topic_%d", i),
			Description: "benchmark seed",
			Kind:        model.TopicKindBinary,
			UpVotes:     up,
			DownVotes:   down,
			Heat:        up + down,
			Status:      model.TopicStatusOpen,
			ExpiresAt:   base.Add(7 * 24 * time.Hour),
			CreatedAt:   base.Add(-time.Duration(i) * time.Second),
		}
	}
	mustDo(db.CreateInBatches(&topics, 1000).Error)
	fmt.Printf("Test data ready: %d open topics\n", topicCount)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6380"
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	topicRepo := repository.NewTopicRepository(db)
	heat := cache.NewHeatRank(client, 10*time.Minute)
	svc := service.NewTopicService(topicRepo, heat, 0)

	reqs := makeRequests(reqCount)

	// Scenario 1: every request hits the database directly (rank disabled).
	noRank := runScenario(ctx, reqs, func(ctx context.Context, r request) error {
		_, _, err := topicRepo.ListOpen(ctx, (r.page-1)*r.size, r.size)
		return err
	}, func() { client.FlushAll(ctx) })

	// Scenario 2: full service path with a warm ZSet rank.
	ranked := runScenario(ctx, reqs, func(ctx context.Context, r request) error {
		_, err := svc.List(ctx, "", r.page, r.size)
		return err
	}, func() {
		client.FlushAll(ctx)
		// one cold call rebuilds the rank, everything after is a ZSet hit
		if _, err := svc.List(ctx, "", 1, 20); err != nil {
			panic(err)
		}
	})

	fmt.Printf("\nTrending list latency (%d req, %d topics, PostgreSQL + Redis)\n", reqCount, topicCount)
	fmt.Printf("%-18s avg=%v p95=%v p99=%v\n", "DB only", avg(noRank), pct(noRank, 0.95), pct(noRank, 0.99))
	fmt.Printf("%-18s avg=%v p95=%v p99=%v\n", "ZSet rank", avg(ranked), pct(ranked, 0.95), pct(ranked, 0.99))
}

func runScenario(ctx context.Context, reqs []request, call func(context.Context, request) error, prepare func()) []time.Duration {
	prepare()

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		if err := call(ctx, r); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")
	return out
}

func makeRequests(n int) []request {
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		page := 1
		if rnd.Float64() > 0.72 {
			// simulate deep pagination
			page = 2 + rnd.Intn(40)
		}
		out[i] = request{page: page, size: 20}
	}
	return out
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

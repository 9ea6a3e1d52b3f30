package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

func setupCommentBenchDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.CommentLike{}); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	return db
}

func BenchmarkCommentWrite_And_CounterBump(b *testing.B) {
	db := setupCommentBenchDB(b)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	// 预创建文章与部分用户
	post := model.Post{ID: "p0", Slug: "bench-post", Title: "bench", Status: model.PostStatusPublished}
	if err := db.Create(&post).Error; err != nil {
		b.Fatalf("seed post: %v", err)
	}
	users := make([]model.User, 200)
	for i := range users {
		uid := fmt.Sprintf("u%04d", i)
		users[i] = model.User{ID: uid, Username: uid, Email: uid + "@example.com", Password: "p"}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rnd := rand.New(rand.NewSource(42))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := &model.Comment{
			PostID:  post.ID,
			UserID:  users[rnd.Intn(len(users))].ID,
			Content: "bench comment",
			Status:  model.CommentStatusNormal,
		}
		_ = repo.Create(ctx, c)
	}
}

func BenchmarkQueryCommentTree(b *testing.B) {
	db := setupCommentBenchDB(b)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	// 构造：一篇文章 500 条顶层评论，每条下挂 10 条回复
	const (
		tops    = 500
		replies = 10
	)
	post := model.Post{ID: "p0", Slug: "bench-post", Title: "bench", Status: model.PostStatusPublished}
	if err := db.Create(&post).Error; err != nil {
		b.Fatalf("seed post: %v", err)
	}
	u := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
	if err := db.Create(&u).Error; err != nil {
		b.Fatalf("seed user: %v", err)
	}
	rootIDs := make([]string, 0, 50)
	for i := 0; i < tops; i++ {
		top := &model.Comment{PostID: post.ID, UserID: u.ID, Content: "top", Status: model.CommentStatusNormal}
		if err := repo.Create(ctx, top); err != nil {
			b.Fatalf("seed top comment: %v", err)
		}
		if len(rootIDs) < cap(rootIDs) {
			rootIDs = append(rootIDs, top.ID)
		}
		for j := 0; j < replies; j++ {
			reply := &model.Comment{
				PostID:   post.ID,
				UserID:   u.ID,
				ParentID: &top.ID,
				RootID:   &top.ID,
				Content:  "reply",
				Status:   model.CommentStatusNormal,
			}
			if err := repo.Create(ctx, reply); err != nil {
				b.Fatalf("seed reply: %v", err)
			}
		}
	}

	b.ResetTimer()
	b.Run("ListTopLevel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = repo.ListTopLevel(ctx, post.ID, 0, 50)
		}
	})

	b.Run("ListByRoots", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListByRoots(ctx, rootIDs)
		}
	})
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

func newPostService(t *testing.T) (PostService, repository.PostRepository) {
	t.Helper()
	db := setupServiceDB(t)
	repo := repository.NewPostRepository(db)
	return NewPostService(repo, nil, 10), repo
}

func TestPostCreate_SlugConflict(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, PostInput{
		Title:    "Go 并发模式",
		Slug:     "go-concurrency",
		Status:   model.PostStatusPublished,
		Tags:     []string{"Go", "Concurrency"},
		AuthorID: "admin-1",
	})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, "admin-1", post.AuthorID)

	_, err = svc.Create(ctx, PostInput{Title: "撞车", Slug: "go-concurrency"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostUpdate_PublishStampOnce(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, PostInput{Title: "草稿", Slug: "wip"})
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)

	published, err := svc.Update(ctx, draft.ID, PostInput{
		Title: "成稿", Slug: "wip", Status: model.PostStatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	stamp := *published.PublishedAt

	// 再次编辑不改发布时间
	again, err := svc.Update(ctx, draft.ID, PostInput{
		Title: "成稿（修订）", Slug: "wip", Status: model.PostStatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, stamp.Equal(*again.PublishedAt))
}

func TestPostGetBySlug_DraftHidden(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, PostInput{Title: "内部稿件", Slug: "internal-draft"})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "internal-draft", false, false)
	assert.ErrorIs(t, err, ErrPostNotFound)

	got, err := svc.GetBySlug(ctx, "internal-draft", true, false)
	require.NoError(t, err)
	assert.Equal(t, "内部稿件", got.Title)

	_, err = svc.GetBySlug(ctx, "no-such-slug", true, false)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostLikeFlow(t *testing.T) {
	svc, repo := newPostService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, PostInput{Title: "草稿", Slug: "d1"})
	require.NoError(t, err)
	post, err := svc.Create(ctx, PostInput{Title: "正式", Slug: "p1", Status: model.PostStatusPublished})
	require.NoError(t, err)

	// 未发布文章不可点赞
	assert.ErrorIs(t, svc.Like(ctx, draft.ID, "u1"), ErrPostNotFound)

	require.NoError(t, svc.Like(ctx, post.ID, "u1"))
	assert.ErrorIs(t, svc.Like(ctx, post.ID, "u1"), ErrAlreadyLiked)

	liked, err := svc.Liked(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	// 未登录视角恒为未点赞
	liked, err = svc.Liked(ctx, post.ID, "")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)

	require.NoError(t, svc.Unlike(ctx, post.ID, "u1"))
	assert.ErrorIs(t, svc.Unlike(ctx, post.ID, "u1"), ErrNotLiked)
	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)
}

func TestPostList_FiltersAndOrder(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, PostInput{
		Title: "Redis 深入", Slug: "redis-deep", Status: model.PostStatusPublished,
		Tags: []string{"Redis"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PostInput{
		Title: "置顶公告", Slug: "notice", Status: model.PostStatusPublished, Pinned: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PostInput{Title: "未完成", Slug: "draft-1"})
	require.NoError(t, err)

	// 默认只见已发布，置顶在前
	page, err := svc.List(ctx, PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.List, 2)
	assert.Equal(t, "notice", page.List[0].Slug)

	// 标签过滤
	page, err = svc.List(ctx, PostQuery{TagSlug: "redis"})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "redis-deep", page.List[0].Slug)
	require.Len(t, page.List[0].Tags, 1)
	assert.Equal(t, "Redis", page.List[0].Tags[0].Name)

	// 关键词匹配标题
	page, err = svc.List(ctx, PostQuery{Keyword: "公告"})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "notice", page.List[0].Slug)

	// 管理端含草稿
	page, err = svc.List(ctx, PostQuery{IncludeDraft: true, Status: model.PostStatusDraft})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "draft-1", page.List[0].Slug)
}

func TestPostDelete_Cascades(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewPostRepository(db)
	svc := NewPostService(repo, nil, 10)
	ctx := context.Background()

	post, err := svc.Create(ctx, PostInput{
		Title: "待删除", Slug: "doomed", Status: model.PostStatusPublished,
		Tags: []string{"Go"},
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Comment{
		ID: "c1", PostID: post.ID, UserID: "u1", Content: "沙发",
	}).Error)
	require.NoError(t, svc.Like(ctx, post.ID, "u1"))

	assert.ErrorIs(t, svc.Delete(ctx, "no-such-post"), ErrPostNotFound)
	require.NoError(t, svc.Delete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID)
	assert.Error(t, err)

	var links, comments, likes int64
	require.NoError(t, db.Table("post_tags").Where("post_id = ?", post.ID).Count(&links).Error)
	require.NoError(t, db.Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&model.PostLike{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	assert.Zero(t, links)
	assert.Zero(t, comments)
	assert.Zero(t, likes)

	// 标签本身保留，只断开关联
	var tags int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)
}

func TestListTags_Counts(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, PostInput{Title: "a", Slug: "a", Status: model.PostStatusPublished, Tags: []string{"Go", "Web"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PostInput{Title: "b", Slug: "b", Status: model.PostStatusPublished, Tags: []string{"Go"}})
	require.NoError(t, err)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	// 引用数倒序
	assert.Equal(t, "Go", tags[0].Name)
	assert.Equal(t, "go", tags[0].Slug)
	assert.Equal(t, int64(2), tags[0].PostCount)
	assert.Equal(t, int64(1), tags[1].PostCount)
}

package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

// treeShape 只保留内容与层级，便于断言整棵树的结构。
type treeShape struct {
	Content  string
	Recalled bool
	Children []treeShape
}

func shapeOf(nodes []*CommentNode) []treeShape {
	out := make([]treeShape, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeShape{
			Content:  n.Content,
			Recalled: n.Recalled,
			Children: shapeOf(n.Children),
		})
	}
	return out
}

func TestCommentTree_FoldsBeyondMaxDepth(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := NewCommentService(commentRepo, postRepo, userRepo, 3)
	ctx := context.Background()

	seedUser(t, db, "u1")
	post := seedPublishedPost(t, db, "p1")

	// 五级链：c1 <- c2 <- c3 <- c4 <- c5，限深 3 时 c4/c5 折叠到 c2 下
	c1, err := svc.Create(ctx, post.ID, "u1", nil, "c1")
	require.NoError(t, err)
	c2, err := svc.Create(ctx, post.ID, "u1", &c1.ID, "c2")
	require.NoError(t, err)
	c3, err := svc.Create(ctx, post.ID, "u1", &c2.ID, "c3")
	require.NoError(t, err)
	c4, err := svc.Create(ctx, post.ID, "u1", &c3.ID, "c4")
	require.NoError(t, err)
	c5, err := svc.Create(ctx, post.ID, "u1", &c4.ID, "c5")
	require.NoError(t, err)

	// 所有后代共享同一个根
	require.NotNil(t, c5.RootID)
	assert.Equal(t, c1.ID, *c5.RootID)
	assert.Equal(t, c1.ID, *c3.RootID)

	page, err := svc.Tree(ctx, post.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	want := []treeShape{
		{Content: "c1", Children: []treeShape{
			{Content: "c2", Children: []treeShape{
				{Content: "c3"},
				{Content: "c4"},
				{Content: "c5"},
			}},
		}},
	}
	if diff := cmp.Diff(want, shapeOf(page.List)); diff != "" {
		t.Errorf("tree shape mismatch (-want +got):\n%s", diff)
	}

	// 折叠节点保留原 parent_id，前端据此显示"回复 @xx"
	folded := page.List[0].Children[0].Children
	require.Len(t, folded, 3)
	require.NotNil(t, folded[1].ParentID)
	assert.Equal(t, c3.ID, *folded[1].ParentID)
	require.NotNil(t, folded[2].ParentID)
	assert.Equal(t, c4.ID, *folded[2].ParentID)
}

func TestCommentTree_TopLevelPagination(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), repository.NewUserRepository(db), 3)
	ctx := context.Background()

	seedUser(t, db, "u1")
	post := seedPublishedPost(t, db, "p1")
	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, post.ID, "u1", nil, content)
		require.NoError(t, err)
	}

	page1, err := svc.Tree(ctx, post.ID, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page1.Total)
	require.Len(t, page1.List, 2)
	// 顶层时间倒序
	assert.Equal(t, "third", page1.List[0].Content)
	assert.Equal(t, "second", page1.List[1].Content)

	page2, err := svc.Tree(ctx, post.ID, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2.List, 1)
	assert.Equal(t, "first", page2.List[0].Content)

	empty, err := svc.Tree(ctx, post.ID, "", 9, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.List)
	assert.Equal(t, int64(3), empty.Total)
}

func TestCommentCreate_Guards(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), repository.NewUserRepository(db), 3)
	ctx := context.Background()

	seedUser(t, db, "u1")
	post := seedPublishedPost(t, db, "p1")
	other := seedPublishedPost(t, db, "p2")
	draft := &model.Post{ID: "p3", Slug: "slug-p3", Title: "draft", Status: model.PostStatusDraft}
	require.NoError(t, db.Create(draft).Error)

	_, err := svc.Create(ctx, draft.ID, "u1", nil, "hello")
	assert.ErrorIs(t, err, ErrPostNotPublished)

	parent, err := svc.Create(ctx, post.ID, "u1", nil, "parent")
	require.NoError(t, err)

	// 父评论必须属于同一篇文章
	_, err = svc.Create(ctx, other.ID, "u1", &parent.ID, "cross post")
	assert.ErrorIs(t, err, ErrParentMismatch)

	// 已撤回的父评论不可回复
	require.NoError(t, svc.Recall(ctx, parent.ID, "u1", false))
	_, err = svc.Create(ctx, post.ID, "u1", &parent.ID, "reply recalled")
	assert.ErrorIs(t, err, ErrCommentRecalled)
}

func TestCommentRecall_OwnerAndAdmin(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), repository.NewUserRepository(db), 3)
	ctx := context.Background()

	seedUser(t, db, "owner")
	seedUser(t, db, "someone")
	post := seedPublishedPost(t, db, "p1")

	c, err := svc.Create(ctx, post.ID, "owner", nil, "to be recalled")
	require.NoError(t, err)
	reply, err := svc.Create(ctx, post.ID, "someone", &c.ID, "a reply")
	require.NoError(t, err)

	// 非作者非管理员不可撤回
	err = svc.Recall(ctx, c.ID, "someone", false)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	require.NoError(t, svc.Recall(ctx, c.ID, "owner", false))
	// 幂等：重复撤回不报错
	require.NoError(t, svc.Recall(ctx, c.ID, "owner", false))

	// 管理员可撤回他人评论
	require.NoError(t, svc.Recall(ctx, reply.ID, "admin-id", true))

	// 楼层保留，内容抹空
	page, err := svc.Tree(ctx, post.ID, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	top := page.List[0]
	assert.True(t, top.Recalled)
	assert.Empty(t, top.Content)
	require.Len(t, top.Children, 1)
	assert.True(t, top.Children[0].Recalled)
}

func TestCommentEdit(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), repository.NewUserRepository(db), 3)
	ctx := context.Background()

	seedUser(t, db, "owner")
	post := seedPublishedPost(t, db, "p1")
	c, err := svc.Create(ctx, post.ID, "owner", nil, "v1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Edit(ctx, c.ID, "intruder", "hacked"), ErrNotCommentOwner)

	require.NoError(t, svc.Edit(ctx, c.ID, "owner", "v2"))
	got, err := commentRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	require.NoError(t, svc.Recall(ctx, c.ID, "owner", false))
	assert.ErrorIs(t, svc.Edit(ctx, c.ID, "owner", "v3"), ErrCommentRecalled)
}

func TestCommentLikeUnlike(t *testing.T) {
	db := setupServiceDB(t)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), repository.NewUserRepository(db), 3)
	ctx := context.Background()

	seedUser(t, db, "author")
	seedUser(t, db, "fan")
	post := seedPublishedPost(t, db, "p1")
	c, err := svc.Create(ctx, post.ID, "author", nil, "like me")
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, c.ID, "fan"))
	assert.ErrorIs(t, svc.Like(ctx, c.ID, "fan"), ErrAlreadyLiked)

	got, err := commentRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)

	// 点赞者视角 liked=true，路人视角 false
	page, err := svc.Tree(ctx, post.ID, "fan", 1, 10)
	require.NoError(t, err)
	assert.True(t, page.List[0].Liked)
	page, err = svc.Tree(ctx, post.ID, "author", 1, 10)
	require.NoError(t, err)
	assert.False(t, page.List[0].Liked)

	require.NoError(t, svc.Unlike(ctx, c.ID, "fan"))
	assert.ErrorIs(t, svc.Unlike(ctx, c.ID, "fan"), ErrNotLiked)
	got, err = commentRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)

	require.NoError(t, svc.Recall(ctx, c.ID, "author", false))
	assert.ErrorIs(t, svc.Like(ctx, c.ID, "fan"), ErrCommentRecalled)
}

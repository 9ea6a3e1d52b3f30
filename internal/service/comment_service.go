package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

var (
	ErrParentMismatch   = errors.New("parent comment belongs to another post")
	ErrCommentRecalled  = errors.New("comment has been recalled")
	ErrNotCommentOwner  = errors.New("not the comment author")
	ErrAlreadyLiked     = errors.New("already liked")
	ErrNotLiked         = errors.New("not liked yet")
	ErrPostNotPublished = errors.New("post not published")
)

// CommentNode 评论树节点。撤回的评论内容置空、recalled 置真，楼层保留。
type CommentNode struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	ParentID  *string        `json:"parent_id,omitempty"`
	Author    *CommentAuthor `json:"author,omitempty"`
	Content   string         `json:"content"`
	Recalled  bool           `json:"recalled"`
	LikeCount int64          `json:"like_count"`
	Liked     bool           `json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	Children  []*CommentNode `json:"children,omitempty"`
}

type CommentAuthor struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}

// CommentPage 评论树分页结果
type CommentPage struct {
	Total int64          `json:"total"`
	List  []*CommentNode `json:"list"`
}

type CommentService interface {
	// Tree 取某文章的评论树：顶层分页、整棵子树随页返回，深度超限的
	// 回复折叠挂到限深祖先下。viewerID 为空表示未登录。
	Tree(ctx context.Context, postID, viewerID string, page, pageSize int) (*CommentPage, error)
	Create(ctx context.Context, postID, userID string, parentID *string, content string) (*model.Comment, error)
	Edit(ctx context.Context, commentID, userID, content string) error
	// Recall 撤回：作者本人或管理员
	Recall(ctx context.Context, commentID, userID string, isAdmin bool) error
	Like(ctx context.Context, commentID, userID string) error
	Unlike(ctx context.Context, commentID, userID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	maxDepth    int
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, maxDepth int) CommentService {
	if maxDepth < 1 {
		maxDepth = 3
	}
	return &commentService{commentRepo: commentRepo, postRepo: postRepo, userRepo: userRepo, maxDepth: maxDepth}
}

func (s *commentService) Tree(ctx context.Context, postID, viewerID string, page, pageSize int) (*CommentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	tops, total, err := s.commentRepo.ListTopLevel(ctx, postID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	if len(tops) == 0 {
		return &CommentPage{Total: total, List: []*CommentNode{}}, nil
	}

	rootIDs := make([]string, len(tops))
	for i, c := range tops {
		rootIDs[i] = c.ID
	}
	descendants, err := s.commentRepo.ListByRoots(ctx, rootIDs)
	if err != nil {
		return nil, err
	}

	all := make([]*model.Comment, 0, len(tops)+len(descendants))
	all = append(all, tops...)
	all = append(all, descendants...)

	allIDs := make([]string, len(all))
	userIDs := make([]string, 0, len(all))
	seen := make(map[string]bool)
	for i, c := range all {
		allIDs[i] = c.ID
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}
	liked, err := s.commentRepo.LikedIDs(ctx, viewerID, allIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.loadAuthors(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	list := assembleTree(tops, descendants, liked, authors, s.maxDepth)
	return &CommentPage{Total: total, List: list}, nil
}

// assembleTree 内存建树。maxDepth 为 1 时所有回复平铺在顶层评论下。
func assembleTree(tops, descendants []*model.Comment, liked map[string]bool, authors map[string]*CommentAuthor, maxDepth int) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(tops)+len(descendants))
	depth := make(map[string]int, len(nodes))

	toNode := func(c *model.Comment) *CommentNode {
		n := &CommentNode{
			ID:        c.ID,
			PostID:    c.PostID,
			ParentID:  c.ParentID,
			Author:    authors[c.UserID],
			Content:   c.Content,
			Recalled:  c.Recalled(),
			LikeCount: c.LikeCount,
			Liked:     liked[c.ID],
			CreatedAt: c.CreatedAt,
		}
		if n.Recalled {
			n.Content = ""
		}
		return n
	}

	roots := make([]*CommentNode, 0, len(tops))
	for _, c := range tops {
		n := toNode(c)
		nodes[c.ID] = n
		depth[c.ID] = 1
		roots = append(roots, n)
	}

	// descendants 按创建时间升序，父节点必然先于子节点入图
	for _, c := range descendants {
		if c.ParentID == nil {
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			// 父节点不在本页的根集合里，挂不上就丢给根（不应出现，防御跳过）
			continue
		}
		n := toNode(c)
		d := depth[parent.ID] + 1
		if d > maxDepth {
			// 折叠：挂到限深层的祖先下，保留 parent_id 供前端显示"回复 @xx"
			parent = findAncestorAtDepth(parent, nodes, depth, maxDepth)
			d = maxDepth
		}
		nodes[c.ID] = n
		depth[c.ID] = d
		parent.Children = append(parent.Children, n)
	}

	// 子回复时间正序
	var sortChildren func(ns []*CommentNode)
	sortChildren = func(ns []*CommentNode) {
		for _, n := range ns {
			sort.Slice(n.Children, func(i, j int) bool {
				return n.Children[i].CreatedAt.Before(n.Children[j].CreatedAt)
			})
			sortChildren(n.Children)
		}
	}
	sortChildren(roots)
	return roots
}

// findAncestorAtDepth 沿 parent 链向上找到 depth == maxDepth-1 的祖先，
// 折叠的节点统一挂在它下面。
func findAncestorAtDepth(n *CommentNode, nodes map[string]*CommentNode, depth map[string]int, maxDepth int) *CommentNode {
	cur := n
	for depth[cur.ID] >= maxDepth {
		if cur.ParentID == nil {
			break
		}
		parent, ok := nodes[*cur.ParentID]
		if !ok {
			break
		}
		cur = parent
	}
	return cur
}

func (s *commentService) loadAuthors(ctx context.Context, userIDs []string) (map[string]*CommentAuthor, error) {
	out := make(map[string]*CommentAuthor, len(userIDs))
	for _, id := range userIDs {
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out[id] = &CommentAuthor{ID: u.ID, Nickname: u.Nickname, Avatar: u.AvatarURL}
	}
	return out, nil
}

func (s *commentService) Create(ctx context.Context, postID, userID string, parentID *string, content string) (*model.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != model.PostStatusPublished {
		return nil, ErrPostNotPublished
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
		Status:  model.CommentStatusNormal,
	}
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
		if parent.Recalled() {
			return nil, ErrCommentRecalled
		}
		comment.ParentID = parentID
		if parent.RootID != nil {
			comment.RootID = parent.RootID
		} else {
			comment.RootID = &parent.ID
		}
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Edit(ctx context.Context, commentID, userID, content string) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrNotCommentOwner
	}
	if c.Recalled() {
		return ErrCommentRecalled
	}
	return s.commentRepo.UpdateContent(ctx, commentID, content)
}

func (s *commentService) Recall(ctx context.Context, commentID, userID string, isAdmin bool) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !isAdmin && c.UserID != userID {
		return ErrNotCommentOwner
	}
	if c.Recalled() {
		return nil // 幂等
	}
	return s.commentRepo.Recall(ctx, commentID)
}

func (s *commentService) Like(ctx context.Context, commentID, userID string) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.Recalled() {
		return ErrCommentRecalled
	}
	if err := s.commentRepo.Like(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (s *commentService) Unlike(ctx context.Context, commentID, userID string) error {
	if err := s.commentRepo.Unlike(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotLiked
		}
		return err
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

var (
	ErrSlugTaken    = errors.New("slug already taken")
	ErrPostNotFound = errors.New("post not found")
)

// PostInput 建文/改文入参
type PostInput struct {
	Title    string
	Slug     string
	Summary  string
	Content  string
	Cover    string
	Status   string
	Pinned   bool
	Tags     []string
	AuthorID string // 建文时记录操作人，更新不改
}

// PostQuery 列表查询。IncludeDraft 仅管理员可置真。
type PostQuery struct {
	Status       string
	TagSlug      string
	Keyword      string
	Page         int
	PageSize     int
	IncludeDraft bool
}

type PostPage struct {
	Total int64         `json:"total"`
	List  []*model.Post `json:"list"`
}

type PostService interface {
	List(ctx context.Context, q PostQuery) (*PostPage, error)
	// GetBySlug 访客取文。草稿只有管理员可见；countView 为真时记一次浏览。
	GetBySlug(ctx context.Context, slug string, isAdmin, countView bool) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id string, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	Liked(ctx context.Context, postID, userID string) (bool, error)
	ListTags(ctx context.Context) ([]repository.TagWithCount, error)
}

type postService struct {
	postRepo repository.PostRepository
	views    *ViewFlusher
	pageSize int
}

func NewPostService(postRepo repository.PostRepository, views *ViewFlusher, pageSize int) PostService {
	if pageSize < 1 {
		pageSize = 10
	}
	return &postService{postRepo: postRepo, views: views, pageSize: pageSize}
}

func (s *postService) List(ctx context.Context, q PostQuery) (*PostPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		q.PageSize = s.pageSize
	}
	status := q.Status
	if !q.IncludeDraft {
		status = model.PostStatusPublished
	}
	posts, total, err := s.postRepo.List(ctx, repository.PostListFilter{
		Status:  status,
		TagSlug: q.TagSlug,
		Keyword: q.Keyword,
		Offset:  (q.Page - 1) * q.PageSize,
		Limit:   q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &PostPage{Total: total, List: posts}, nil
}

func (s *postService) GetBySlug(ctx context.Context, slug string, isAdmin, countView bool) (*model.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	// 草稿对外不存在
	if post.Status != model.PostStatusPublished && !isAdmin {
		return nil, ErrPostNotFound
	}
	if countView && s.views != nil && post.Status == model.PostStatusPublished {
		s.views.Hit(post.ID)
	}
	return post, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	if in.Status == "" {
		in.Status = model.PostStatusDraft
	}
	post := &model.Post{
		Title:    in.Title,
		Slug:     in.Slug,
		Summary:  in.Summary,
		Content:  in.Content,
		CoverURL: in.Cover,
		Status:   in.Status,
		Pinned:   in.Pinned,
		AuthorID: in.AuthorID,
	}
	if post.Status == model.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.postRepo.Create(ctx, post, in.Tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	wasPublished := post.Status == model.PostStatusPublished

	post.Title = in.Title
	post.Slug = in.Slug
	post.Summary = in.Summary
	post.Content = in.Content
	post.CoverURL = in.Cover
	post.Pinned = in.Pinned
	if in.Status != "" {
		post.Status = in.Status
	}
	// 首次发布才盖时间戳，再次编辑不动
	if post.Status == model.PostStatusPublished && !wasPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.postRepo.Update(ctx, post, in.Tags); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *postService) Like(ctx context.Context, postID, userID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Status != model.PostStatusPublished {
		return ErrPostNotFound
	}
	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (s *postService) Unlike(ctx context.Context, postID, userID string) error {
	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotLiked
		}
		return err
	}
	return nil
}

func (s *postService) Liked(ctx context.Context, postID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.postRepo.Liked(ctx, postID, userID)
}

func (s *postService) ListTags(ctx context.Context) ([]repository.TagWithCount, error) {
	return s.postRepo.ListTags(ctx)
}

package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/cache"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

var (
	ErrTopicNotFound  = errors.New("topic not found")
	ErrTopicClosed    = errors.New("topic closed or expired")
	ErrBadVote        = errors.New("vote payload does not match topic kind")
	ErrBadOptions     = errors.New("multi topic needs 2 to 8 options")
	ErrOptionNotFound = errors.New("option not found in topic")
	ErrBadDirection   = errors.New("direction must be up or down")
)

// TopicView 话题 + 当前用户的投票
type TopicView struct {
	*model.TrendingTopic
	MyVote *model.TopicVote `json:"my_vote,omitempty"`
}

type TopicPage struct {
	Total int64        `json:"total"`
	List  []*TopicView `json:"list"`
}

type TopicCommentPage struct {
	Total int64                 `json:"total"`
	List  []*model.TopicComment `json:"list"`
}

// VoteResult 对外返回的投票结果
type VoteResult struct {
	Action    string `json:"action"`
	UpVotes   int64  `json:"up_votes"`
	DownVotes int64  `json:"down_votes"`
	Heat      int64  `json:"heat"`
}

type TopicService interface {
	// List 开放话题按热度分页；优先走 Redis 榜单，未命中回源并重建
	List(ctx context.Context, viewerID string, page, pageSize int) (*TopicPage, error)
	Get(ctx context.Context, id, viewerID string) (*TopicView, error)
	// Propose 发起话题。multi 需要 2-8 个选项；expiresIn<=0 用默认时长。
	Propose(ctx context.Context, creatorID, title, description, kind string, options []string, expiresIn time.Duration) (*model.TrendingTopic, error)
	// VoteBinary direction 取 model.VoteUp / model.VoteDown
	VoteBinary(ctx context.Context, topicID, userID string, direction int) (*VoteResult, error)
	VoteOption(ctx context.Context, topicID, userID, optionID string) (*VoteResult, error)
	AddComment(ctx context.Context, topicID, userID, content string) (*model.TopicComment, error)
	Comments(ctx context.Context, topicID string, page, pageSize int) (*TopicCommentPage, error)
	Close(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type topicService struct {
	topicRepo repository.TopicRepository
	heat      *cache.HeatRank
	defTTL    time.Duration
}

func NewTopicService(topicRepo repository.TopicRepository, heat *cache.HeatRank, defaultTTL time.Duration) TopicService {
	if defaultTTL <= 0 {
		defaultTTL = 7 * 24 * time.Hour
	}
	return &topicService{topicRepo: topicRepo, heat: heat, defTTL: defaultTTL}
}

func (s *topicService) List(ctx context.Context, viewerID string, page, pageSize int) (*TopicPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.topicRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	topics, hit := s.listFromRank(ctx, offset, pageSize)
	if !hit {
		var dbTopics []*model.TrendingTopic
		dbTopics, _, err = s.topicRepo.ListOpen(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		topics = dbTopics
		s.rebuildRank(ctx)
	}

	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	votes, err := s.topicRepo.VotesFor(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*TopicView, len(topics))
	for i, t := range topics {
		list[i] = &TopicView{TrendingTopic: t, MyVote: votes[t.ID]}
	}
	return &TopicPage{Total: total, List: list}, nil
}

// listFromRank ZSet 命中时按榜单顺序装配话题
func (s *topicService) listFromRank(ctx context.Context, offset, limit int) ([]*model.TrendingTopic, bool) {
	ids, ok := s.heat.TopIDs(ctx, offset, limit)
	if !ok {
		return nil, false
	}
	if len(ids) == 0 {
		return []*model.TrendingTopic{}, true
	}
	topics, err := s.topicRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, false
	}
	byID := make(map[string]*model.TrendingTopic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}
	ordered := make([]*model.TrendingTopic, 0, len(ids))
	for _, id := range ids {
		// 榜单可能短暂含有已关闭话题，装配时过滤
		if t, ok := byID[id]; ok && t.Status == model.TopicStatusOpen {
			ordered = append(ordered, t)
		}
	}
	return ordered, true
}

func (s *topicService) rebuildRank(ctx context.Context) {
	// 全量开放话题灌回 ZSet。榜单规模有限（开放话题数），一次性取回可接受。
	topics, _, err := s.topicRepo.ListOpen(ctx, 0, 1000)
	if err != nil {
		return
	}
	scores := make(map[string]int64, len(topics))
	for _, t := range topics {
		scores[t.ID] = t.Heat
	}
	s.heat.Rebuild(ctx, scores)
}

func (s *topicService) Get(ctx context.Context, id, viewerID string) (*TopicView, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	view := &TopicView{TrendingTopic: topic}
	if viewerID != "" {
		if v, err := s.topicRepo.GetVote(ctx, id, viewerID); err == nil {
			view.MyVote = v
		}
	}
	return view, nil
}

func (s *topicService) Propose(ctx context.Context, creatorID, title, description, kind string, options []string, expiresIn time.Duration) (*model.TrendingTopic, error) {
	if kind == "" {
		kind = model.TopicKindBinary
	}
	switch kind {
	case model.TopicKindBinary:
		options = nil
	case model.TopicKindMulti:
		if len(options) < 2 || len(options) > 8 {
			return nil, ErrBadOptions
		}
	default:
		return nil, ErrBadVote
	}
	if expiresIn <= 0 {
		expiresIn = s.defTTL
	}
	topic := &model.TrendingTopic{
		Title:       title,
		Description: description,
		CreatorID:   creatorID,
		Kind:        kind,
		Status:      model.TopicStatusOpen,
		ExpiresAt:   time.Now().Add(expiresIn),
	}
	if err := s.topicRepo.Create(ctx, topic, options); err != nil {
		return nil, err
	}
	s.heat.Set(ctx, topic.ID, 0)
	return topic, nil
}

func (s *topicService) VoteBinary(ctx context.Context, topicID, userID string, direction int) (*VoteResult, error) {
	if direction != model.VoteUp && direction != model.VoteDown {
		return nil, ErrBadDirection
	}
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	if topic.Kind != model.TopicKindBinary {
		return nil, ErrBadVote
	}
	if !topic.Votable(time.Now()) {
		return nil, ErrTopicClosed
	}
	return s.applyVote(ctx, topicID, userID, direction, nil)
}

func (s *topicService) VoteOption(ctx context.Context, topicID, userID, optionID string) (*VoteResult, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	if topic.Kind != model.TopicKindMulti {
		return nil, ErrBadVote
	}
	if !topic.Votable(time.Now()) {
		return nil, ErrTopicClosed
	}
	found := false
	for _, opt := range topic.Options {
		if opt.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrOptionNotFound
	}
	return s.applyVote(ctx, topicID, userID, model.VoteUp, &optionID)
}

func (s *topicService) applyVote(ctx context.Context, topicID, userID string, direction int, optionID *string) (*VoteResult, error) {
	out, err := s.topicRepo.Vote(ctx, topicID, userID, direction, optionID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 事务内复核失败：并发关闭/到期
			return nil, ErrTopicClosed
		}
		return nil, err
	}
	s.heat.Set(ctx, topicID, out.Heat)
	return &VoteResult{
		Action:    out.Action,
		UpVotes:   out.UpVotes,
		DownVotes: out.DownVotes,
		Heat:      out.Heat,
	}, nil
}

func (s *topicService) AddComment(ctx context.Context, topicID, userID, content string) (*model.TopicComment, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	if topic.Status != model.TopicStatusOpen {
		return nil, ErrTopicClosed
	}
	c := &model.TopicComment{
		TopicID: topicID,
		UserID:  userID,
		Content: content,
		Status:  model.CommentStatusNormal,
	}
	if err := s.topicRepo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *topicService) Comments(ctx context.Context, topicID string, page, pageSize int) (*TopicCommentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	comments, total, err := s.topicRepo.ListComments(ctx, topicID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &TopicCommentPage{Total: total, List: comments}, nil
}

func (s *topicService) Close(ctx context.Context, id string) error {
	if _, err := s.topicRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	if err := s.topicRepo.Close(ctx, id); err != nil {
		return err
	}
	s.heat.Remove(ctx, id)
	return nil
}

func (s *topicService) Delete(ctx context.Context, id string) error {
	if err := s.topicRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.heat.Remove(ctx, id)
	return nil
}

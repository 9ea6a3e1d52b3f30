package service

import (
	"context"
	"errors"
	"strings"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

var ErrNicknameRequired = errors.New("anonymous entry needs a nickname")

type GuestbookPage struct {
	Total int64              `json:"total"`
	List  []*model.Guestbook `json:"list"`
}

type GuestbookService interface {
	List(ctx context.Context, page, pageSize int) (*GuestbookPage, error)
	ListAll(ctx context.Context, page, pageSize int) (*GuestbookPage, error)
	// Post 登录用户 userID 非空、昵称可省（取资料昵称）；匿名必须带昵称
	Post(ctx context.Context, userID, nickname, content string) (*model.Guestbook, error)
	Hide(ctx context.Context, id string) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type guestbookService struct {
	guestbookRepo repository.GuestbookRepository
	userRepo      repository.UserRepository
}

func NewGuestbookService(guestbookRepo repository.GuestbookRepository, userRepo repository.UserRepository) GuestbookService {
	return &guestbookService{guestbookRepo: guestbookRepo, userRepo: userRepo}
}

func (s *guestbookService) List(ctx context.Context, page, pageSize int) (*GuestbookPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	entries, total, err := s.guestbookRepo.ListVisible(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &GuestbookPage{Total: total, List: entries}, nil
}

func (s *guestbookService) ListAll(ctx context.Context, page, pageSize int) (*GuestbookPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	entries, total, err := s.guestbookRepo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &GuestbookPage{Total: total, List: entries}, nil
}

func (s *guestbookService) Post(ctx context.Context, userID, nickname, content string) (*model.Guestbook, error) {
	nickname = strings.TrimSpace(nickname)
	entry := &model.Guestbook{
		Nickname: nickname,
		Content:  content,
		Status:   model.GuestbookStatusVisible,
	}
	if userID != "" {
		entry.UserID = &userID
		if entry.Nickname == "" {
			u, err := s.userRepo.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			entry.Nickname = u.Nickname
			if entry.Nickname == "" {
				entry.Nickname = u.Username
			}
		}
	}
	if entry.Nickname == "" {
		return nil, ErrNicknameRequired
	}
	if err := s.guestbookRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *guestbookService) Hide(ctx context.Context, id string) error {
	return s.guestbookRepo.UpdateStatus(ctx, id, model.GuestbookStatusHidden)
}

func (s *guestbookService) Show(ctx context.Context, id string) error {
	return s.guestbookRepo.UpdateStatus(ctx, id, model.GuestbookStatusVisible)
}

func (s *guestbookService) Delete(ctx context.Context, id string) error {
	return s.guestbookRepo.Delete(ctx, id)
}

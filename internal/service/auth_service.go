package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
)

var (
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already taken")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUserBanned     = errors.New("account banned")
)

const denylistPrefix = "auth:denylist:"

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// ProfileUpdate 个人资料更新（角色、会员字段不可经此修改）
type ProfileUpdate struct {
	Nickname  *string
	AvatarURL *string
	Bio       *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 成功返回用户与令牌
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	// Logout 把令牌 jti 拉入注销名单直到自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	// TokenRevoked 注销名单查询；Redis 不可用时放行（fail-open）
	TokenRevoked(ctx context.Context, jti string) bool
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     *jwtauth.Manager
	rdb        *redis.Client
	bcryptCost int
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwtauth.Manager, rdb *redis.Client) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, rdb: rdb, bcryptCost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	nickname := in.Nickname
	if nickname == "" {
		nickname = in.Username
	}
	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Nickname: nickname,
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册时唯一键兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Login 未知用户与密码错误返回同一个错误，避免枚举账号。
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}
	if user.Status == model.UserStatusBanned {
		return nil, "", ErrUserBanned
	}
	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (s *authService) TokenRevoked(ctx context.Context, jti string) bool {
	if s.rdb == nil || jti == "" {
		return false
	}
	n, err := s.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (s *authService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Nickname != nil {
		user.Nickname = *upd.Nickname
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

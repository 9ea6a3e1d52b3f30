package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
)

var ErrBadUserStatus = errors.New("status must be active or banned")

// DailyCount 按日计数点
type DailyCount struct {
	Day   string `json:"day"` // 2006-01-02
	Count int64  `json:"count"`
}

// DashboardStats 仪表盘总览
type DashboardStats struct {
	Users        int64        `json:"users"`
	Posts        int64        `json:"posts"`
	Comments     int64        `json:"comments"`
	Orders       int64        `json:"orders"`
	RevenueCents int64        `json:"revenue_cents"`
	OpenTopics   int64        `json:"open_topics"`
	NewUsers7d   []DailyCount `json:"new_users_7d"`
	NewOrders7d  []DailyCount `json:"new_orders_7d"`
}

type UserPage struct {
	Total int64         `json:"total"`
	List  []*model.User `json:"list"`
}

type CouponPage struct {
	Total int64           `json:"total"`
	List  []*model.Coupon `json:"list"`
}

type CommentPageFlat struct {
	Total int64            `json:"total"`
	List  []*model.Comment `json:"list"`
}

type AdminService interface {
	// Stats 各表计数并发扇出，一张慢表不拖垮整页
	Stats(ctx context.Context) (*DashboardStats, error)

	ListUsers(ctx context.Context, keyword string, page, pageSize int) (*UserPage, error)
	SetUserStatus(ctx context.Context, userID, status string) error
	GrantAdmin(ctx context.Context, userID string) error

	RecentComments(ctx context.Context, page, pageSize int) (*CommentPageFlat, error)

	ListOrders(ctx context.Context, f repository.OrderListFilter) (*OrderPage, error)

	ListCoupons(ctx context.Context, page, pageSize int) (*CouponPage, error)
	CreateCoupon(ctx context.Context, c *model.Coupon) error
	UpdateCoupon(ctx context.Context, c *model.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error

	ListChannels(ctx context.Context) ([]*model.PaymentChannel, error)
	SetChannelEnabled(ctx context.Context, code string, enabled bool) error
}

type adminService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	orderRepo   repository.OrderRepository
	topicRepo   repository.TopicRepository
	couponRepo  repository.CouponRepository
	channelRepo repository.ChannelRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	orderRepo repository.OrderRepository,
	topicRepo repository.TopicRepository,
	couponRepo repository.CouponRepository,
	channelRepo repository.ChannelRepository,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		orderRepo:   orderRepo,
		topicRepo:   topicRepo,
		couponRepo:  couponRepo,
		channelRepo: channelRepo,
	}
}

func (s *adminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		NewUsers7d:  make([]DailyCount, 7),
		NewOrders7d: make([]DailyCount, 7),
	}
	var mu sync.Mutex
	var wg sync.WaitGroup
	errCh := make(chan error, 20)

	count := func(f func(context.Context) (int64, error), assign func(int64)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := f(ctx)
			if err != nil {
				errCh <- err
				return
			}
			mu.Lock()
			assign(n)
			mu.Unlock()
		}()
	}

	count(s.userRepo.Count, func(n int64) { stats.Users = n })
	count(s.postRepo.Count, func(n int64) { stats.Posts = n })
	count(s.commentRepo.Count, func(n int64) { stats.Comments = n })
	count(s.orderRepo.Count, func(n int64) { stats.Orders = n })
	count(s.orderRepo.PaidRevenue, func(n int64) { stats.RevenueCents = n })
	count(s.topicRepo.CountOpen, func(n int64) { stats.OpenTopics = n })

	// 近 7 日（含今日）按日并发取数
	today := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < 7; i++ {
		i := i
		from := today.AddDate(0, 0, i-6)
		to := from.AddDate(0, 0, 1)
		day := from.Format("2006-01-02")
		count(func(ctx context.Context) (int64, error) {
			return s.userRepo.CountRange(ctx, from, to)
		}, func(n int64) { stats.NewUsers7d[i] = DailyCount{Day: day, Count: n} })
		count(func(ctx context.Context) (int64, error) {
			return s.orderRepo.CountRange(ctx, from, to)
		}, func(n int64) { stats.NewOrders7d[i] = DailyCount{Day: day, Count: n} })
	}

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, keyword string, page, pageSize int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	users, total, err := s.userRepo.List(ctx, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &UserPage{Total: total, List: users}, nil
}

func (s *adminService) SetUserStatus(ctx context.Context, userID, status string) error {
	if status != model.UserStatusActive && status != model.UserStatusBanned {
		return ErrBadUserStatus
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.UpdateStatus(ctx, userID, status)
}

func (s *adminService) GrantAdmin(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.UpdateRole(ctx, userID, model.RoleAdmin)
}

func (s *adminService) RecentComments(ctx context.Context, page, pageSize int) (*CommentPageFlat, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	comments, total, err := s.commentRepo.ListRecent(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &CommentPageFlat{Total: total, List: comments}, nil
}

func (s *adminService) ListOrders(ctx context.Context, f repository.OrderListFilter) (*OrderPage, error) {
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	orders, total, err := s.orderRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Total: total, List: orders}, nil
}

func (s *adminService) ListCoupons(ctx context.Context, page, pageSize int) (*CouponPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	coupons, total, err := s.couponRepo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &CouponPage{Total: total, List: coupons}, nil
}

func (s *adminService) CreateCoupon(ctx context.Context, c *model.Coupon) error {
	if c.Status == "" {
		c.Status = model.CouponStatusActive
	}
	return s.couponRepo.Create(ctx, c)
}

func (s *adminService) UpdateCoupon(ctx context.Context, c *model.Coupon) error {
	return s.couponRepo.Update(ctx, c)
}

func (s *adminService) DeleteCoupon(ctx context.Context, id string) error {
	return s.couponRepo.Delete(ctx, id)
}

func (s *adminService) ListChannels(ctx context.Context) ([]*model.PaymentChannel, error) {
	return s.channelRepo.List(ctx)
}

func (s *adminService) SetChannelEnabled(ctx context.Context, code string, enabled bool) error {
	if err := s.channelRepo.SetEnabled(ctx, code, enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payment.ErrChannelUnknown
		}
		return err
	}
	return nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
)

type adminEnv struct {
	db          *gorm.DB
	svc         AdminService
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	channelRepo repository.ChannelRepository
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	db := setupServiceDB(t)
	env := &adminEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		channelRepo: repository.NewChannelRepository(db),
	}
	env.svc = NewAdminService(
		env.userRepo,
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		env.orderRepo,
		repository.NewTopicRepository(db),
		repository.NewCouponRepository(db),
		env.channelRepo,
	)
	return env
}

func TestAdminStats(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	seedUser(t, env.db, "u1")
	seedUser(t, env.db, "u2")
	post := seedPublishedPost(t, env.db, "p1")
	require.NoError(t, env.db.Create(&model.Comment{
		ID: "c1", PostID: post.ID, UserID: "u1", Content: "沙发", Status: model.CommentStatusNormal,
	}).Error)

	now := time.Now()
	paidAt := now
	require.NoError(t, env.orderRepo.Create(ctx, &model.Order{
		OrderNo: "paid-1", UserID: "u1", ProductID: "p", PayCents: 5000,
		Status: model.OrderStatusPaid, PaidAt: &paidAt, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, env.orderRepo.Create(ctx, &model.Order{
		OrderNo: "pend-1", UserID: "u2", ProductID: "p", PayCents: 800,
		Status: model.OrderStatusPending, ExpiresAt: now.Add(time.Hour),
	}))

	topicRepo := repository.NewTopicRepository(env.db)
	require.NoError(t, topicRepo.Create(ctx, &model.TrendingTopic{
		Title: "Go 泛型值不值得用", Kind: model.TopicKindBinary,
		Status: model.TopicStatusOpen, ExpiresAt: now.Add(time.Hour),
	}, nil))

	stats, err := env.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.Posts)
	assert.Equal(t, int64(1), stats.Comments)
	assert.Equal(t, int64(2), stats.Orders)
	// 营收只算已支付
	assert.Equal(t, int64(5000), stats.RevenueCents)
	assert.Equal(t, int64(1), stats.OpenTopics)

	require.Len(t, stats.NewUsers7d, 7)
	require.Len(t, stats.NewOrders7d, 7)
	today := time.Now().Truncate(24 * time.Hour).Format("2006-01-02")
	assert.Equal(t, today, stats.NewUsers7d[6].Day)
	assert.Equal(t, int64(2), stats.NewUsers7d[6].Count)
	assert.Equal(t, int64(2), stats.NewOrders7d[6].Count)
	assert.Zero(t, stats.NewUsers7d[0].Count)
}

func TestSetUserStatus(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "u1")

	assert.ErrorIs(t, env.svc.SetUserStatus(ctx, "u1", "frozen"), ErrBadUserStatus)
	assert.ErrorIs(t, env.svc.SetUserStatus(ctx, "ghost", model.UserStatusBanned), gorm.ErrRecordNotFound)

	require.NoError(t, env.svc.SetUserStatus(ctx, "u1", model.UserStatusBanned))
	u, err := env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusBanned, u.Status)

	require.NoError(t, env.svc.SetUserStatus(ctx, "u1", model.UserStatusActive))
	u, err = env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, u.Status)
}

func TestGrantAdmin(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "u1")

	assert.ErrorIs(t, env.svc.GrantAdmin(ctx, "ghost"), gorm.ErrRecordNotFound)

	require.NoError(t, env.svc.GrantAdmin(ctx, "u1"))
	u, err := env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestListUsers_Keyword(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "alice")
	seedUser(t, env.db, "bob")
	seedUser(t, env.db, "carol")

	page, err := env.svc.ListUsers(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = env.svc.ListUsers(ctx, "ali", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "alice", page.List[0].Username)

	// 邮箱也在匹配范围
	page, err = env.svc.ListUsers(ctx, "bob@example", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestCouponAdmin(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	now := time.Now()
	c := &model.Coupon{
		ID: "c1", Code: "WELCOME", Name: "新人券", DiscountCents: 500,
		TotalCount: 100, StartsAt: now, EndsAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, env.svc.CreateCoupon(ctx, c))
	assert.Equal(t, model.CouponStatusActive, c.Status)

	page, err := env.svc.ListCoupons(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	c.Status = model.CouponStatusDisabled
	require.NoError(t, env.svc.UpdateCoupon(ctx, c))

	require.NoError(t, env.svc.DeleteCoupon(ctx, "c1"))
	page, err = env.svc.ListCoupons(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestAdminChannels(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	require.NoError(t, env.channelRepo.SeedDefaults(ctx))

	assert.ErrorIs(t, env.svc.SetChannelEnabled(ctx, "paypal", true), payment.ErrChannelUnknown)

	require.NoError(t, env.svc.SetChannelEnabled(ctx, model.ChannelWechat, true))
	ch, err := env.channelRepo.GetByCode(ctx, model.ChannelWechat)
	require.NoError(t, err)
	assert.True(t, ch.Enabled)

	channels, err := env.svc.ListChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 4)
}

func TestListOrders_Filter(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	now := time.Now()
	for i, st := range []string{model.OrderStatusPaid, model.OrderStatusPending, model.OrderStatusPaid} {
		require.NoError(t, env.orderRepo.Create(ctx, &model.Order{
			OrderNo: "no-" + string(rune('a'+i)), UserID: "u1", ProductID: "p",
			PayCents: 100, Status: st, ExpiresAt: now.Add(time.Hour),
		}))
	}

	page, err := env.svc.ListOrders(ctx, repository.OrderListFilter{Status: model.OrderStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = env.svc.ListOrders(ctx, repository.OrderListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestRecentComments(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	post := seedPublishedPost(t, env.db, "p1")
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, env.db.Create(&model.Comment{
			ID: id, PostID: post.ID, UserID: "u1", Content: "评论 " + id, Status: model.CommentStatusNormal,
		}).Error)
	}

	page, err := env.svc.RecentComments(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.List, 2)
	// 最新的排前面
	assert.Equal(t, "c3", page.List[0].ID)
}

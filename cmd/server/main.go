package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/api/handler"
	"github.com/d60-Lab/techblog/internal/api/router"
	"github.com/d60-Lab/techblog/internal/cache"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/internal/service"
	rediscache "github.com/d60-Lab/techblog/pkg/cache"
	"github.com/d60-Lab/techblog/pkg/database"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
	"github.com/d60-Lab/techblog/pkg/logger"
	"github.com/d60-Lab/techblog/pkg/telemetry"
)

// @title TechBlog API
// @version 1.0
// @description 技术博客与数字商品商城后端
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracer, err := telemetry.InitTracer(cfg.Trace)
	if err != nil {
		logger.Fatal("init tracer", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("auto migrate", zap.Error(err))
		}
	}

	// Redis 连不上时降级运行：热榜回源数据库、注销名单放行、浏览镜像停写
	rdb, err := rediscache.InitRedis(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, degraded mode", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	guestbookRepo := repository.NewGuestbookRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := channelRepo.SeedDefaults(seedCtx); err != nil {
		cancelSeed()
		logger.Fatal("seed payment channels", zap.Error(err))
	}
	cancelSeed()

	registry := buildProviders(cfg.Pay)
	logger.Info("payment providers registered", zap.Strings("channels", registry.Codes()))

	tokens := jwtauth.NewManager(cfg.JWT)
	heat := cache.NewHeatRank(rdb, 10*time.Minute)

	views := service.NewViewFlusher(postRepo, rdb, cfg.Blog.ViewFlushEvery, 0)
	stopViews := views.Start()
	sweeper := service.NewSweeper(orderRepo, topicRepo, heat, cfg.Shop.SweepEvery)
	stopSweeper := sweeper.Start()

	authSvc := service.NewAuthService(userRepo, tokens, rdb)
	postSvc := service.NewPostService(postRepo, views, cfg.Blog.PageSize)
	commentSvc := service.NewCommentService(commentRepo, postRepo, userRepo, cfg.Blog.CommentMaxDepth)
	shopSvc := service.NewShopService(productRepo, orderRepo, couponRepo, cfg.Shop.OrderTTL)
	paymentSvc := service.NewPaymentService(db, orderRepo, productRepo, couponRepo, userRepo, channelRepo, registry, cfg.Pay.NotifyBase)
	topicSvc := service.NewTopicService(topicRepo, heat, 0)
	guestbookSvc := service.NewGuestbookService(guestbookRepo, userRepo)
	settingSvc := service.NewSettingService(settingRepo, 0)
	adminSvc := service.NewAdminService(userRepo, postRepo, commentRepo, orderRepo, topicRepo, couponRepo, channelRepo)

	h := handler.New(handler.Options{
		Auth:         authSvc,
		Post:         postSvc,
		Comment:      commentSvc,
		Shop:         shopSvc,
		Payment:      paymentSvc,
		Topic:        topicSvc,
		Guestbook:    guestbookSvc,
		Setting:      settingSvc,
		Admin:        adminSvc,
		CookieName:   cfg.JWT.CookieName,
		CookieMaxAge: int(tokens.TTL().Seconds()),
	})

	engine := router.New(cfg, h, tokens, authSvc)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := stopViews(shutdownCtx); err != nil {
		logger.Error("view flusher stop", zap.Error(err))
	}
	if err := stopSweeper(shutdownCtx); err != nil {
		logger.Error("sweeper stop", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown", zap.Error(err))
	}
	logger.Info("bye")
}

// buildProviders 测试渠道始终注册（启停由渠道表控制），
// 其余渠道只有配置了凭证才注册。
func buildProviders(cfg config.PayConfig) *payment.Registry {
	providers := []payment.Provider{payment.NewTestProvider()}
	if cfg.Wechat.AppID != "" {
		providers = append(providers, payment.NewWechatProvider(cfg.Wechat))
	}
	if cfg.Alipay.AppID != "" {
		ap, err := payment.NewAlipayProvider(cfg.Alipay)
		if err != nil {
			logger.Fatal("alipay provider", zap.Error(err))
		}
		providers = append(providers, ap)
	}
	if cfg.Xunhupay.AppID != "" {
		providers = append(providers, payment.NewXunhupayProvider(cfg.Xunhupay))
	}
	return payment.NewRegistry(providers...)
}

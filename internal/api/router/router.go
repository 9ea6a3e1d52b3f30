package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/techblog/config"
	_ "github.com/d60-Lab/techblog/docs"
	"github.com/d60-Lab/techblog/internal/api/handler"
	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
)

// New 组装中间件与全部路由。
func New(cfg *config.Config, h *handler.Handler, tokens *jwtauth.Manager, authSvc service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()
	r := gin.New()

	r.Use(middleware.GinLogger(), middleware.GinRecovery())
	// sentrygin 在 GinRecovery 之后挂载：panic 先被 Sentry 捕获上报、
	// 重新抛出后由 GinRecovery 记日志并回 500
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware(cfg.Trace.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/swagger"})))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	optional := middleware.OptionalAuth(tokens, authSvc, cfg.JWT.CookieName)
	required := middleware.AuthRequired(tokens, authSvc, cfg.JWT.CookieName)

	v1 := r.Group("/api/v1")

	// 账号
	auth := v1.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(1, 5), h.Register)
		auth.POST("/login", middleware.RateLimit(2, 10), h.Login)
		auth.POST("/logout", required, h.Logout)
		auth.GET("/me", required, h.Me)
		auth.PUT("/me", required, h.UpdateProfile)
	}

	// 文章 / 标签 / 评论。文章路径统一用 slug 寻址。
	v1.GET("/posts", optional, h.ListPosts)
	v1.GET("/posts/:slug", optional, h.GetPost)
	v1.GET("/posts/:slug/comments", optional, h.ListComments)
	v1.POST("/posts/:slug/comments", required, middleware.RateLimit(1, 5), h.CreateComment)
	v1.POST("/posts/:slug/like", required, h.LikePost)
	v1.DELETE("/posts/:slug/like", required, h.UnlikePost)
	v1.GET("/tags", h.ListTags)

	v1.PUT("/comments/:id", required, h.EditComment)
	v1.DELETE("/comments/:id", required, h.RecallComment)
	v1.POST("/comments/:id/like", required, h.LikeComment)
	v1.DELETE("/comments/:id/like", required, h.UnlikeComment)

	// 热议话题
	v1.GET("/topics", optional, h.ListTopics)
	v1.GET("/topics/:id", optional, h.GetTopic)
	v1.POST("/topics", required, middleware.RateLimit(0.2, 3), h.ProposeTopic)
	v1.POST("/topics/:id/vote", required, h.VoteTopic)
	v1.POST("/topics/:id/vote-option", required, h.VoteTopicOption)
	v1.GET("/topics/:id/comments", h.ListTopicComments)
	v1.POST("/topics/:id/comments", required, middleware.RateLimit(1, 5), h.AddTopicComment)

	// 商城。回调端点由渠道方签名保护，不走登录态。
	shop := v1.Group("/shop")
	{
		shop.GET("/products", h.ListProducts)
		shop.GET("/products/:slug", h.GetProduct)
		shop.GET("/channels", h.ListChannels)
		shop.GET("/preview", h.PreviewOrder)
		shop.POST("/coupons/check", h.CheckCoupon)
		shop.POST("/notify/:channel", h.PaymentNotify)

		shop.POST("/orders", required, middleware.RateLimit(1, 5), h.CreateOrder)
		shop.GET("/orders", required, h.MyOrders)
		shop.GET("/orders/:order_no", required, h.GetOrder)
		shop.POST("/orders/:order_no/cancel", required, h.CancelOrder)
		shop.POST("/orders/:order_no/pay", required, h.StartPayment)
		shop.GET("/orders/:order_no/status", required, h.PaymentStatus)
		shop.POST("/orders/:order_no/testpay", required, h.SimulateTestPay)
		shop.GET("/orders/:order_no/key", required, h.OrderKey)
	}

	// 留言墙：匿名可写，限流挡脚本
	v1.GET("/guestbook", h.ListGuestbook)
	v1.POST("/guestbook", optional, middleware.RateLimit(0.5, 3), h.PostGuestbook)

	// 公开站点设置
	v1.GET("/settings", h.PublicSettings)

	// 管理端
	admin := v1.Group("/admin", required, middleware.AdminRequired())
	{
		admin.GET("/stats", h.AdminStats)

		admin.GET("/posts", h.AdminListPosts)
		admin.POST("/posts", h.CreatePost)
		admin.PUT("/posts/:id", h.UpdatePost)
		admin.DELETE("/posts/:id", h.DeletePost)

		admin.GET("/users", h.AdminListUsers)
		admin.PUT("/users/:id/status", h.AdminSetUserStatus)
		admin.POST("/users/:id/grant-admin", h.AdminGrantAdmin)

		admin.GET("/comments", h.AdminRecentComments)

		admin.GET("/orders", h.AdminListOrders)
		admin.POST("/orders/:order_no/refund", h.AdminRefundOrder)

		admin.GET("/products", h.AdminListProducts)
		admin.POST("/products", h.AdminCreateProduct)
		admin.PUT("/products/:id", h.AdminUpdateProduct)
		admin.POST("/products/:id/keys", h.AdminImportKeys)

		admin.GET("/coupons", h.AdminListCoupons)
		admin.POST("/coupons", h.AdminCreateCoupon)
		admin.PUT("/coupons/:id", h.AdminUpdateCoupon)
		admin.DELETE("/coupons/:id", h.AdminDeleteCoupon)

		admin.GET("/channels", h.AdminListChannels)
		admin.PUT("/channels/:code", h.AdminSetChannel)

		admin.GET("/guestbook", h.AdminListGuestbook)
		admin.POST("/guestbook/:id/visibility", h.SetGuestbookVisibility)
		admin.DELETE("/guestbook/:id", h.DeleteGuestbook)

		admin.POST("/topics/:id/close", h.CloseTopic)
		admin.DELETE("/topics/:id", h.DeleteTopic)

		admin.GET("/settings", h.AdminListSettings)
		admin.PUT("/settings/:key", h.AdminSetSetting)
	}

	return r
}

package handler

import (
	"github.com/d60-Lab/techblog/internal/service"
)

// Handler 聚合各业务服务，按文件拆分路由方法。
type Handler struct {
	authSvc      service.AuthService
	postSvc      service.PostService
	commentSvc   service.CommentService
	shopSvc      service.ShopService
	paymentSvc   service.PaymentService
	topicSvc     service.TopicService
	guestbookSvc service.GuestbookService
	settingSvc   service.SettingService
	adminSvc     service.AdminService
	cookieName   string
	cookieMaxAge int
}

type Options struct {
	Auth      service.AuthService
	Post      service.PostService
	Comment   service.CommentService
	Shop      service.ShopService
	Payment   service.PaymentService
	Topic     service.TopicService
	Guestbook service.GuestbookService
	Setting   service.SettingService
	Admin     service.AdminService
	// CookieName 会话 Cookie 名；CookieMaxAge 秒
	CookieName   string
	CookieMaxAge int
}

func New(opts Options) *Handler {
	return &Handler{
		authSvc:      opts.Auth,
		postSvc:      opts.Post,
		commentSvc:   opts.Comment,
		shopSvc:      opts.Shop,
		paymentSvc:   opts.Payment,
		topicSvc:     opts.Topic,
		guestbookSvc: opts.Guestbook,
		settingSvc:   opts.Setting,
		adminSvc:     opts.Admin,
		cookieName:   opts.CookieName,
		cookieMaxAge: opts.CookieMaxAge,
	}
}

package model

// AllModels 自动迁移的全量模型列表
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Tag{},
		&PostLike{},
		&Comment{},
		&CommentLike{},
		&Product{},
		&ProductKey{},
		&Order{},
		&Coupon{},
		&PaymentChannel{},
		&TrendingTopic{},
		&TopicOption{},
		&TopicVote{},
		&TopicComment{},
		&Guestbook{},
		&Setting{},
	}
}

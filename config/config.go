package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Trace    TraceConfig    `mapstructure:"trace"`
	Blog     BlogConfig     `mapstructure:"blog"`
	Shop     ShopConfig     `mapstructure:"shop"`
	Pay      PayConfig      `mapstructure:"pay"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireIn   time.Duration `mapstructure:"expire_in"`
	Issuer     string        `mapstructure:"issuer"`
	CookieName string        `mapstructure:"cookie_name"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	Mode  string `mapstructure:"mode"`  // development, production
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TraceConfig struct {
	Endpoint    string `mapstructure:"endpoint"` // OTLP HTTP endpoint, empty disables tracing
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

type BlogConfig struct {
	PageSize        int           `mapstructure:"page_size"`
	CommentMaxDepth int           `mapstructure:"comment_max_depth"`
	ViewFlushEvery  time.Duration `mapstructure:"view_flush_every"`
}

type ShopConfig struct {
	OrderTTL   time.Duration `mapstructure:"order_ttl"`
	SweepEvery time.Duration `mapstructure:"sweep_every"`
}

// PayConfig 各支付渠道凭证。渠道的启用状态与展示信息存 payment_channels 表，
// 密钥只从配置读，不落库。
type PayConfig struct {
	Wechat     WechatPayConfig `mapstructure:"wechat"`
	Alipay     AlipayConfig    `mapstructure:"alipay"`
	Xunhupay   XunhupayConfig  `mapstructure:"xunhupay"`
	NotifyBase string          `mapstructure:"notify_base"` // 对外回调地址前缀
}

type WechatPayConfig struct {
	AppID   string `mapstructure:"app_id"`
	MchID   string `mapstructure:"mch_id"`
	APIKey  string `mapstructure:"api_key"`
	Gateway string `mapstructure:"gateway"`
}

type AlipayConfig struct {
	AppID      string `mapstructure:"app_id"`
	PrivateKey string `mapstructure:"private_key"` // PKCS1 PEM
	PublicKey  string `mapstructure:"public_key"`  // 支付宝公钥 PEM
	Gateway    string `mapstructure:"gateway"`
}

type XunhupayConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	Gateway   string `mapstructure:"gateway"`
}

// Load 读取 config.yaml 并套用环境变量覆盖（TECHBLOG_ 前缀）。
// 配置文件缺失时使用默认值启动，便于本地零配置运行。
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv("TECHBLOG_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("TECHBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "techblog.db")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_in", "72h")
	v.SetDefault("jwt.issuer", "techblog")
	v.SetDefault("jwt.cookie_name", "token")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "production")

	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("trace.service_name", "techblog")

	v.SetDefault("blog.page_size", 10)
	v.SetDefault("blog.comment_max_depth", 3)
	v.SetDefault("blog.view_flush_every", "10s")

	v.SetDefault("shop.order_ttl", "30m")
	v.SetDefault("shop.sweep_every", "1m")

	v.SetDefault("pay.wechat.gateway", "https://api.mch.weixin.qq.com/pay/unifiedorder")
	v.SetDefault("pay.alipay.gateway", "https://openapi.alipay.com/gateway.do")
	v.SetDefault("pay.xunhupay.gateway", "https://api.xunhupay.com/payment/do.html")
}

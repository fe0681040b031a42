package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port   string // サーバーポート（8080）
	GoEnv  string // dev/prod
	AppURL string // フロントURL（決済の戻り先やmagic linkで使う）

	Database DatabaseConfig
	Log      LogConfig
	Payment  PaymentConfig
	Media    MediaConfig
	Mail     MailConfig

	JWTSecret    string        // JWT署名シークレット
	SessionTTL   time.Duration // セッショントークンの有効期限
	MagicLinkTTL time.Duration // magic linkの有効期限
	CookieSecure bool

	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL      string // DATABASE_URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string // debug/info/warn/error
	Format string // json/text
	Output string // stdout/file/both
	File   string
}

// devでSecretKeyが空ならsandboxで動く。prod以外では必須
type PaymentConfig struct {
	StripeSecretKey string
	Currency        string
}

// CloudinaryURLが空ならローカル保存
type MediaConfig struct {
	CloudinaryURL string
	UploadDir     string
	PublicURL     string // ローカル保存した画像のURLの前につける（APIサーバーのURL）
}

// devでHostが空ならログに出すだけ
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev" || c.GoEnv == "test"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("APP_URL", "http://localhost:3000")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "storefront")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/storefront.log")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("MAGIC_LINK_TTL", "15m")
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@storefront.local")

	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// Loadは .env と環境変数を読む
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:   v.GetString("PORT"),
		GoEnv:  strings.ToLower(v.GetString("GO_ENV")),
		AppURL: strings.TrimRight(v.GetString("APP_URL"), "/"),

		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetInt("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			Name:            v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
			File:   v.GetString("LOG_FILE"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
			Currency:        strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		},
		Media: MediaConfig{
			CloudinaryURL: v.GetString("CLOUDINARY_URL"),
			UploadDir:     v.GetString("UPLOAD_DIR"),
			PublicURL:     strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
		},
		Mail: MailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},

		JWTSecret:    v.GetString("JWT_SECRET"),
		SessionTTL:   v.GetDuration("SESSION_TTL"),
		MagicLinkTTL: v.GetDuration("MAGIC_LINK_TTL"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),

		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}
	// prodでsandbox決済やログだけのメールにならないようにする
	if !cfg.IsDev() {
		if cfg.Payment.StripeSecretKey == "" {
			return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
		}
		if cfg.Mail.Host == "" {
			return Config{}, fmt.Errorf("SMTP_HOST is required")
		}
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.MagicLinkTTL <= 0 {
		return Config{}, fmt.Errorf("MAGIC_LINK_TTL must be positive")
	}
	if cfg.Database.URL == "" && cfg.Database.Port <= 0 {
		return Config{}, fmt.Errorf("POSTGRES_PORT must be number")
	}

	return cfg, nil
}

// ":8080" 形式にする
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

package config

import (
	"errors"
	"strings"
	"time"

	"crypto_cashier/internal/logger"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	LogJSON     bool
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	AllowedOrigins []string
	BTCNetwork     string
	// withdrawal destinations are only required-field checked unless set
	ValidateWalletAddresses bool

	// terminal statuses may be moved back to PENDING only when set
	AllowStatusReopen bool
	SessionTTL        time.Duration
	CookieSecure      bool

	// seed defaults, used by cmd/seed
	AdminEmail              string
	AdminPassword           string
	DefaultBTCAddress       string
	DefaultLightningAddress string
	DefaultNetworkFee       string
}

// Загрузка конфига из env (.env подхватывается, если есть)
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromViper(newViper())
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", true)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("API_RATE_LIMIT", 30)
	v.SetDefault("API_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("BTC_NETWORK", "mainnet")
	v.SetDefault("ALLOW_STATUS_REOPEN", false)
	v.SetDefault("VALIDATE_WALLET_ADDRESSES", false)
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("NETWORK_FEE", "0.0001")
	return v
}

// FromViper builds the config from an already prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	network := strings.ToLower(v.GetString("BTC_NETWORK"))
	if _, err := NetParams(network); err != nil {
		return nil, err
	}

	// ALLOWED_ORIGINS через запятую
	var origins []string
	for _, o := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:                 v.GetString("APP_PORT"),
		DatabaseURL:             dbURL,
		JWTSecret:               jwtSecret,
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogJSON:                 v.GetBool("LOG_JSON"),
		AutoMigrate:             v.GetBool("AUTO_MIGRATE"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		RedisDB:                 v.GetInt("REDIS_DB"),
		APIRateLimit:            positiveOr(v.GetInt("API_RATE_LIMIT"), 30),
		APIRateWindow:           time.Duration(positiveOr(v.GetInt("API_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		AuthRateLimit:           positiveOr(v.GetInt("AUTH_RATE_LIMIT"), 5),
		AuthRateWindow:          time.Duration(positiveOr(v.GetInt("AUTH_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		AllowedOrigins:          origins,
		BTCNetwork:              network,
		ValidateWalletAddresses: v.GetBool("VALIDATE_WALLET_ADDRESSES"),
		AllowStatusReopen:       v.GetBool("ALLOW_STATUS_REOPEN"),
		SessionTTL:              time.Duration(positiveOr(v.GetInt("SESSION_TTL_HOURS"), 24)) * time.Hour,
		CookieSecure:            v.GetBool("COOKIE_SECURE"),
		AdminEmail:              v.GetString("ADMIN_EMAIL"),
		AdminPassword:           v.GetString("ADMIN_PASSWORD"),
		DefaultBTCAddress:       v.GetString("DEFAULT_BTC_ADDRESS"),
		DefaultLightningAddress: v.GetString("DEFAULT_LIGHTNING_ADDRESS"),
		DefaultNetworkFee:       v.GetString("NETWORK_FEE"),
	}, nil
}

// NetParams maps BTC_NETWORK to chain parameters used for address validation.
func NetParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, errors.New("BTC_NETWORK must be one of mainnet, testnet, regtest, signet")
	}
}

func positiveOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

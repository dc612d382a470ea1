package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DefaultTuitionProductName = "Biaya Sekolah Bulanan"

type Config struct {
	Port string

	// postgres (default) | memory
	DBDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Timezone *time.Location

	// Billing
	BillingCron         string
	BillingCronEnabled  bool
	TuitionProductName  string
	TuitionDefaultPrice int64
	RunSeeds            bool

	// API
	RequireAuth           bool
	ExposeInternalErrors  bool
	JWTSecret             string
	ClassCapacityEnforced bool

	// Midtrans
	MidtransServerKey string
	MidtransUseProd   bool
}

var AppConfig = &Config{}

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Config {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Info("Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Info(".env file berhasil dimuat")
		}
	} else {
		log.Info("Running in Railway, menggunakan ENV dari sistem")
	}

	cfg := &Config{
		Port:       GetEnv("PORT", "3000"),
		DBDriver:   strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
		DBHost:     GetEnv("DB_HOST"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		Timezone: LoadLocation(GetEnv("APP_TIMEZONE", "Asia/Jakarta")),

		BillingCron:         GetEnv("BILLING_CRON", "0 0 1 * *"),
		BillingCronEnabled:  GetEnvBool("BILLING_CRON_ENABLED", true),
		TuitionProductName:  GetEnv("TUITION_PRODUCT_NAME", DefaultTuitionProductName),
		TuitionDefaultPrice: int64(GetEnvInt("TUITION_DEFAULT_PRICE", 0)),
		RunSeeds:            GetEnvBool("RUN_SEEDS", false),

		RequireAuth:           GetEnvBool("API_REQUIRE_AUTH", true),
		ExposeInternalErrors:  GetEnvBool("API_EXPOSE_INTERNAL_ERRORS", false),
		JWTSecret:             GetEnv("JWT_SECRET"),
		ClassCapacityEnforced: GetEnvBool("CLASS_CAPACITY_ENFORCED", false),

		MidtransServerKey: GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:   GetEnvBool("MIDTRANS_USE_PROD", false),
	}

	if cfg.RequireAuth && cfg.JWTSecret == "" {
		log.Warn("API_REQUIRE_AUTH aktif tapi JWT_SECRET belum diset, semua request /api akan ditolak")
	}
	if cfg.MidtransServerKey == "" {
		log.Warn("MIDTRANS_SERVER_KEY belum diset, pembayaran online nonaktif")
	}

	AppConfig = cfg
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.WithField("key", key).Warnf("nilai boolean tidak valid %q, pakai default %v", v, def)
		return def
	}
	return b
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).Warnf("nilai integer tidak valid %q, pakai default %d", v, def)
		return def
	}
	return n
}

// LoadLocation falls back to Asia/Jakarta, then UTC.
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(strings.TrimSpace(name)); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

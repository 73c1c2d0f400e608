package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogoPath       string
	Stylesheet     string
	ChromePath     string
	RenderTimeout  time.Duration
	LaunchAttempts int
	LaunchBackoff  time.Duration
	CompanyName    string
	AdminEmail     string
	AdminPassword  string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		LogoPath:       getEnv("INVOICE_LOGO_PATH", ""),
		Stylesheet:     getEnv("INVOICE_STYLESHEET", ""),
		ChromePath:     getEnv("CHROME_PATH", ""),
		RenderTimeout:  getEnvDuration("PDF_RENDER_TIMEOUT", 30*time.Second),
		LaunchAttempts: getEnvInt("PDF_LAUNCH_ATTEMPTS", 3),
		LaunchBackoff:  getEnvDuration("PDF_LAUNCH_BACKOFF", time.Second),
		CompanyName:    getEnv("INVOICE_COMPANY_NAME", "InvoiceDesk"),
		AdminEmail:     getEnv("INVOICE_ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("INVOICE_ADMIN_PASSWORD", ""),
	}

	if cfg.LaunchAttempts < 1 {
		log.Printf("config: PDF_LAUNCH_ATTEMPTS=%d is below 1, using 1", cfg.LaunchAttempts)
		cfg.LaunchAttempts = 1
	}
	if cfg.AdminEmail != "" && len(cfg.AdminPassword) < 8 {
		log.Printf("config: INVOICE_ADMIN_PASSWORD must be at least 8 characters, admin seeding disabled")
		cfg.AdminEmail = ""
	}
	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getEnvDuration accepts Go durations ("45s") or whole seconds ("45").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("config: invalid duration %s=%q, using %s", key, v, def)
	return def
}

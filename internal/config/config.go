package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress string
	DataDir    string

	FeedAddress   string
	FeedAPIKey    string
	FeedAPISecret string

	ExtractorAddress string

	QRAddress  string
	QRClientID string
	QRAPIKey   string
	QRTemplate string

	// Merchant's own receiving account, used for sell-side pay-in QRs.
	MerchantAccountNo   string
	MerchantAccountName string
	MerchantBankBIN     string

	DiscordWebhookURL string
	TelegramToken     string
	TelegramChatID    string

	PollInterval           time.Duration
	LookbackWindow         time.Duration
	SeedWindow             time.Duration
	PageSize               int
	MaxPages               int
	MaxConsecutiveFailures int
	BankMatchThreshold     float64
	ShutdownTimeout        time.Duration
}

const (
	defaultRunAddress     = "127.0.0.1:8088"
	defaultDataDir        = "transactions"
	defaultQRAddress      = "https://api.vietqr.io"
	defaultQRTemplate     = "rc9Vk60"
	defaultPollInterval   = time.Second
	defaultLookbackWindow = 45 * time.Minute
	defaultSeedWindow     = 45 * time.Minute
	defaultPageSize       = 100
	defaultMaxPages       = 100
	defaultMaxFailures    = 3
	defaultBankThreshold  = 0.88
	defaultShutdownWait   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DataDir:                getString(lookup, "DATA_DIR", defaultDataDir),
		FeedAddress:            getString(lookup, "FEED_ADDRESS", ""),
		FeedAPIKey:             getString(lookup, "FEED_API_KEY", ""),
		FeedAPISecret:          getString(lookup, "FEED_API_SECRET", ""),
		ExtractorAddress:       getString(lookup, "EXTRACTOR_ADDRESS", ""),
		QRAddress:              getString(lookup, "VIETQR_ADDRESS", defaultQRAddress),
		QRClientID:             getString(lookup, "VIETQR_CLIENT_ID", ""),
		QRAPIKey:               getString(lookup, "VIETQR_API_KEY", ""),
		QRTemplate:             getString(lookup, "VIETQR_TEMPLATE", defaultQRTemplate),
		MerchantAccountNo:      getString(lookup, "MERCHANT_ACCOUNT_NO", ""),
		MerchantAccountName:    getString(lookup, "MERCHANT_ACCOUNT_NAME", ""),
		MerchantBankBIN:        getString(lookup, "MERCHANT_BANK_BIN", ""),
		DiscordWebhookURL:      getString(lookup, "DISCORD_WEBHOOK", ""),
		TelegramToken:          getString(lookup, "TELEGRAM_TOKEN", ""),
		TelegramChatID:         getString(lookup, "TELEGRAM_CHAT_ID", ""),
		PollInterval:           getDuration(lookup, "POLL_INTERVAL", defaultPollInterval),
		LookbackWindow:         getDuration(lookup, "LOOKBACK_WINDOW", defaultLookbackWindow),
		SeedWindow:             getDuration(lookup, "SEED_WINDOW", defaultSeedWindow),
		PageSize:               getInt(lookup, "FEED_PAGE_SIZE", defaultPageSize),
		MaxPages:               getInt(lookup, "FEED_MAX_PAGES", defaultMaxPages),
		MaxConsecutiveFailures: getInt(lookup, "MAX_CONSECUTIVE_FAILURES", defaultMaxFailures),
		BankMatchThreshold:     getFloat(lookup, "BANK_MATCH_THRESHOLD", defaultBankThreshold),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownWait),
	}

	fs := flag.NewFlagSet("p2pwatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PollInterval.String()
		lookbackStr        = cfg.LookbackWindow.String()
		seedWindowStr      = cfg.SeedWindow.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory of transaction partitions and QR artifacts")
	fs.StringVar(&cfg.FeedAddress, "feed", cfg.FeedAddress, "Order-history feed base URL")
	fs.StringVar(&cfg.ExtractorAddress, "extractor", cfg.ExtractorAddress, "Order-info extractor base URL")
	fs.StringVar(&cfg.QRAddress, "qr", cfg.QRAddress, "QR generation service base URL")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between feed polls")
	fs.StringVar(&lookbackStr, "lookback", lookbackStr, "Sliding window queried on each poll")
	fs.StringVar(&seedWindowStr, "seed-window", seedWindowStr, "Log window replayed into the status index on startup")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Orders requested per feed page")
	fs.IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "Page ceiling per feed query")
	fs.IntVar(&cfg.MaxConsecutiveFailures, "max-failures", cfg.MaxConsecutiveFailures, "Consecutive iteration failures tolerated before the loop stops")
	fs.Float64Var(&cfg.BankMatchThreshold, "bank-threshold", cfg.BankMatchThreshold, "Minimum similarity accepted by fuzzy bank lookup")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}
	if cfg.LookbackWindow, err = time.ParseDuration(lookbackStr); err != nil {
		return nil, fmt.Errorf("invalid lookback window: %w", err)
	}
	if cfg.SeedWindow, err = time.ParseDuration(seedWindowStr); err != nil {
		return nil, fmt.Errorf("invalid seed window: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.LookbackWindow <= 0 {
		cfg.LookbackWindow = defaultLookbackWindow
	}
	if cfg.SeedWindow <= 0 {
		cfg.SeedWindow = defaultSeedWindow
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = defaultMaxFailures
	}
	if cfg.BankMatchThreshold <= 0 || cfg.BankMatchThreshold > 1 {
		cfg.BankMatchThreshold = defaultBankThreshold
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownWait
	}

	if cfg.FeedAddress == "" {
		return nil, fmt.Errorf("feed address must be provided")
	}
	if cfg.ExtractorAddress == "" {
		return nil, fmt.Errorf("extractor address must be provided")
	}
	if cfg.DiscordWebhookURL == "" && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("at least one notification sink must be configured")
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == "" {
		return nil, fmt.Errorf("telegram chat id must be provided with telegram token")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mailscope/mailscope"
)

// Config holds the service settings, loaded from the environment with an
// optional .env file.
type Config struct {
	ServerPort string
	Workers    int

	DNSTimeout     time.Duration
	SMTPHeloDomain string
	SMTPMailFrom   string
	SMTPRCPTProbe  bool
	DNSBLZones     []string
}

func loadConfig() Config {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	return Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		Workers:        getEnvAsInt("VERIFY_WORKERS", 5),
		DNSTimeout:     time.Duration(getEnvAsInt("DNS_TIMEOUT_SECONDS", 5)) * time.Second,
		SMTPHeloDomain: getEnv("SMTP_HELO_DOMAIN", ""),
		SMTPMailFrom:   getEnv("SMTP_MAIL_FROM", ""),
		SMTPRCPTProbe:  getEnvAsBool("SMTP_RCPT_PROBE", false),
		DNSBLZones:     getEnvAsList("DNSBL_ZONES", nil),
	}
}

// verifierOptions maps the service config onto library options. Zero values
// fall through to the library defaults.
func (c Config) verifierOptions() mailscope.Options {
	return mailscope.Options{
		DNS: mailscope.DNSOptions{Timeout: c.DNSTimeout},
		SMTP: mailscope.SMTPOptions{
			HeloDomain: c.SMTPHeloDomain,
			MailFrom:   c.SMTPMailFrom,
			RCPTProbe:  c.SMTPRCPTProbe,
		},
		Blacklist: mailscope.BlacklistOptions{Zones: c.DNSBLZones},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

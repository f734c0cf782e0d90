package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Small readers for optional variables. Each returns the default when the
// variable is unset or cannot be parsed.

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}

func envList(k, d string) []string {
	var out []string
	for _, p := range strings.Split(envStr(k, d), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// AppConfig carries everything the client process needs at startup.
type AppConfig struct {
	ServerBaseURL string
	ServerWSURL   string

	GameID     string
	PlayerName string

	RedisURL string

	SurfaceWidth  int
	SurfaceHeight int

	MsgTemplateDir string

	ReconnectMaxAttempts int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		SurfaceWidth:         720,
		SurfaceHeight:        720,
		ReconnectMaxAttempts: 5,
	}

	cfg.ServerBaseURL = strings.TrimSpace(os.Getenv("SERVER_BASE_URL"))
	cfg.ServerWSURL = strings.TrimSpace(os.Getenv("SERVER_WS_URL"))
	cfg.GameID = strings.TrimSpace(os.Getenv("GAME_ID"))
	cfg.PlayerName = strings.TrimSpace(os.Getenv("PLAYER_NAME"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	if v := strings.TrimSpace(os.Getenv("SURFACE_WIDTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SurfaceWidth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SURFACE_HEIGHT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SurfaceHeight = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RECONNECT_MAX_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ReconnectMaxAttempts = n
		}
	}

	if cfg.ServerWSURL == "" {
		return nil, errors.New("SERVER_WS_URL is required")
	}
	return cfg, nil
}

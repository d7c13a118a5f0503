package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL   = "http://localhost:5000/api"
	tokenDirName    = ".sewtrack"
	tokenFileName   = "tokens.json"
	defaultLogLevel = "info"
)

type EnvVars struct {
	AppName   string `env:"APP_NAME,default=SewTrack"`
	Env       string `env:"ENV,default=DEV"`
	APIURL    string `env:"API_URL"`
	TokenFile string `env:"TOKEN_FILE"`
	LogLevel  string `env:"LOG_LEVEL"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

// GetAPIURL returns the backend base URL including the /api prefix
// (e.g. "https://shop.example.com/api"). Trailing slashes are removed.
func (e EnvVars) GetAPIURL() string {
	url := strings.TrimRight(strings.TrimSpace(e.APIURL), "/")
	if url == "" {
		return defaultAPIURL
	}
	return url
}

// GetTokenFile returns where the access/refresh token pair is persisted.
func (e EnvVars) GetTokenFile() string {
	if e.TokenFile != "" {
		return e.TokenFile
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(tokenDirName, tokenFileName)
	}
	return filepath.Join(home, tokenDirName, tokenFileName)
}

func (e EnvVars) GetLogLevel() string {
	if e.LogLevel == "" {
		return defaultLogLevel
	}
	return strings.ToLower(e.LogLevel)
}

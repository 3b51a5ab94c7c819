package config

import (
	"fmt"
	"path"
	"strings"
)

var validCompressLevels = map[string]bool{
	"":       true,
	"high":   true,
	"fine":   true,
	"normal": true,
	"low":    true,
}

var validLogcatPriorities = map[string]bool{
	"unknown": true,
	"default": true,
	"verbose": true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"error":   true,
	"fatal":   true,
	"silent":  true,
}

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateADBConfig(&config.ADB); err != nil {
		return fmt.Errorf("adb config validation failed: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateGeneralConfig(&config.General); err != nil {
		return fmt.Errorf("general config validation failed: %w", err)
	}

	if err := validateBrowserConfig(&config.Browser); err != nil {
		return fmt.Errorf("browser config validation failed: %w", err)
	}

	if err := validateTransferConfig(&config.Transfer); err != nil {
		return fmt.Errorf("transfer config validation failed: %w", err)
	}

	if err := validateMirrorConfig(&config.Mirror); err != nil {
		return fmt.Errorf("mirror config validation failed: %w", err)
	}

	if err := validateLogcatConfig(&config.Logcat); err != nil {
		return fmt.Errorf("logcat config validation failed: %w", err)
	}

	return nil
}

// validateADBConfig validates bridge configuration
func validateADBConfig(config *ADBConfig) error {
	if strings.TrimSpace(config.Path) == "" {
		return fmt.Errorf("path is required")
	}

	if config.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got: %d", config.PollInterval)
	}

	if config.ProgressInterval <= 0 {
		return fmt.Errorf("progress_interval must be positive, got: %d", config.ProgressInterval)
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateGeneralConfig validates general configuration
func validateGeneralConfig(config *GeneralConfig) error {
	if config.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive, got: %d", config.DefaultTimeout)
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", config.MaxRetries)
	}

	return nil
}

// validateBrowserConfig requires an absolute device path
func validateBrowserConfig(config *BrowserConfig) error {
	if !path.IsAbs(config.RootPath) {
		return fmt.Errorf("root_path must be an absolute device path, got: %q", config.RootPath)
	}
	return nil
}

// validateTransferConfig validates transfer configuration
func validateTransferConfig(config *TransferConfig) error {
	if strings.TrimSpace(config.SavePath) == "" {
		return fmt.Errorf("save_path is required")
	}

	if config.UploadDelay < 0 {
		return fmt.Errorf("upload_delay must be non-negative, got: %d", config.UploadDelay)
	}

	if !validCompressLevels[strings.ToLower(config.DefaultCompress)] {
		return fmt.Errorf("invalid default_compress: %s (valid: high, fine, normal, low)", config.DefaultCompress)
	}

	return nil
}

// validateMirrorConfig validates scrcpy options
func validateMirrorConfig(config *MirrorConfig) error {
	if config.MaxSize < 0 {
		return fmt.Errorf("max_size must be non-negative, got: %d", config.MaxSize)
	}
	if config.MaxFPS < 0 {
		return fmt.Errorf("max_fps must be non-negative, got: %d", config.MaxFPS)
	}
	return nil
}

// validateLogcatConfig validates logcat configuration
func validateLogcatConfig(config *LogcatConfig) error {
	if !validLogcatPriorities[strings.ToLower(config.Priority)] {
		return fmt.Errorf("invalid priority: %s", config.Priority)
	}

	if config.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got: %d", config.BufferSize)
	}

	return nil
}

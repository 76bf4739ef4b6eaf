// Package config loads wanreader's TOML configuration.
//
// The config file lives at ~/.config/wanreader/config.toml by default. Every
// key is optional:
//
//	base_url = "https://www.wanandroid.com/"
//	timeout_seconds = 30
//	cookie_path = "~/.config/wanreader/cookies.toml"
//	log_path = "~/.local/state/wanreader/wanreader.log"
//	requests_per_second = 0   # 0 disables client-side pacing
//	workers = 4               # concurrent background requests
//
// Tilde paths are expanded and relative paths are made absolute. Blank or
// non-positive values keep the default.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error. wanreader works out of the box
// against the public service without any file on disk.
package config

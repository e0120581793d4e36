// Package config loads promptdeck's config.toml.
//
// # Configuration Discovery
//
// Load resolves the path in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/promptdeck/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are empty, use defaults for those fields
//
// # TOML Format
//
// Every field is optional:
//
//	site_url = "https://ai-prompts.example.edu/"
//	endpoint = "https://script.google.com/macros/s/<deployment>/exec"
//	poll_seconds = 60
//	log_dir = "~/.local/share/promptdeck/logs"
//	log_level = "info"
//	prefs_backend = "toml"        # or "bolt"
//	prefs_path = ""
//	metrics_addr = ""             # e.g. "127.0.0.1:9464"
//	likes_merge = "replace"       # or "keep-pending"
//	like_rate_per_second = 2
//	like_burst = 5
//
// An endpoint that still contains the XXXXXXXX placeholder leaves the
// community features disabled. Tilde expansion applies to the config path
// and log_dir.
//
// # Error Handling
//
// Load returns errors for unreadable files, malformed TOML and an unknown
// likes_merge value. A missing file is not an error.
package config

// Package config provides loading and environment overlay for scrollback
// configuration. It exposes a Default() baseline that file and SCROLLBACK_*
// environment values override.
//
// Example:
//
//	cfg, err := config.Load("scrollback.yaml") // defaults when path is ""
//	if err != nil { /* ... */ }
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { /* ... */ }
//	rt, _ := runtime.Open(runtime.Options{DataDir: config.DefaultDataDir(), Config: cfg})
//	defer rt.Close()
package config

// Package config manages client configuration for the Ganymede toolkit.
//
// A configuration is assembled from up to three layers, later layers
// overriding earlier ones:
//
//  1. Documented defaults (Default).
//  2. OLLAMA_* environment variables (FromEnv).
//  3. An optional YAML file (MergeFile), where only keys present in the
//     file override and unknown keys are ignored for forward compatibility.
//
// Load runs all three layers and validates the result:
//
//	cfg, err := config.Load("ganymede.yaml")
//	if err != nil {
//	    // *config.ConfigError names the offending field
//	}
//
// A validated Config is immutable by convention: nothing in this module
// mutates it after construction, so it is safe to share across goroutines
// without locking. NewWatcher provides optional hot-reload notification for
// long-running processes.
package config

// Ganymede is a command line client for Ollama-compatible model servers.
//
// Usage:
//
//	# Stream a chat completion
//	ganymede chat llama3.2 "Explain goroutines in one paragraph"
//
//	# Single-prompt completion
//	ganymede generate llama3.2 "What is 2+2?"
//
//	# Compute embeddings
//	ganymede embed nomic-embed-text "some text"
//
//	# Model administration
//	ganymede models list
//	ganymede models pull mistral:7b
//	ganymede models show llama3.2
//	ganymede models delete old-model
//	ganymede models ps
//
//	# Keep configured models loaded on a schedule
//	ganymede warm
//
// The server endpoint and defaults come from OLLAMA_* environment
// variables, optionally overridden by a YAML config file (--config).
package main

func main() {
	Execute()
}

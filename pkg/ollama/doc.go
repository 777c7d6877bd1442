// Package ollama is a client for Ollama-compatible model servers. It
// covers chat and prompt completion in buffered and streaming form,
// embedding generation, and model administration (list, pull, delete,
// show, running models), translating between provider-agnostic request
// types and the server's JSON wire format.
//
// A Client is constructed from a validated config.Config, probed with
// Initialize, and released with Close. Streaming responses arrive over
// channels whose final element carries either completion metadata or a
// terminal error; closing the client or cancelling the request context
// tears the stream down.
package ollama

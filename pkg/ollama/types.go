package ollama

// MessageRole identifies the sender of a chat message. Role values
// round-trip exactly to and from the server's wire format.
type MessageRole string

// Message role constants.
const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// ChatMessage is a single message in a conversation. Ordering within a
// conversation is caller-significant and preserved on the wire.
type ChatMessage struct {
	// Role identifies the message sender.
	Role MessageRole `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Images holds base64-encoded images for multimodal models.
	Images []string `json:"images,omitempty"`

	// ToolCalls contains structured tool calls attached to the message.
	ToolCalls []map[string]any `json:"tool_calls,omitempty"`
}

// Parameters are per-request inference settings. Nil pointer fields are
// omitted from the wire payload entirely so that the server's own defaults
// govern. Extra is an unvalidated passthrough for server-specific tuning
// knobs not modeled here.
type Parameters struct {
	// Temperature controls sampling randomness (0.0 to 2.0).
	Temperature *float64

	// TopP controls nucleus sampling (0.0 to 1.0).
	TopP *float64

	// TopK limits sampling to the K most likely tokens.
	TopK *int

	// MaxTokens caps the number of generated tokens.
	MaxTokens *int

	// Seed makes sampling deterministic when set.
	Seed *int

	// StopSequences halt generation when emitted by the model.
	StopSequences []string

	// Extra is forwarded verbatim into the request's options object without
	// local validation.
	Extra map[string]any
}

// Ptr returns a pointer to v. It is a convenience for populating the
// optional fields of Parameters.
func Ptr[T any](v T) *T {
	return &v
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens generated.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is prompt plus completion.
	TotalTokens int `json:"total_tokens"`
}

// Response is a complete, buffered result from a chat or generate call.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`

	// Model is the model that produced the response.
	Model string `json:"model"`

	// Role is the responder's role, always RoleAssistant for server output.
	Role MessageRole `json:"role"`

	// FinishReason indicates why generation stopped, when reported.
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage contains token consumption counts.
	Usage TokenUsage `json:"usage"`

	// Metadata carries server-reported timing and bookkeeping fields
	// (created_at, total_duration, eval_duration, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// StreamChunk is one incremental unit of a streaming response. Exactly one
// chunk in a stream has Final set, and it is the last chunk delivered; its
// Metadata carries the server's duration and token-count fields.
type StreamChunk struct {
	// Content is the incremental text, possibly empty.
	Content string `json:"content"`

	// Final marks the terminating chunk of the stream.
	Final bool `json:"final"`

	// Metadata is populated only on the final chunk.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Err is set instead of content when the stream fails mid-flight. A
	// chunk carrying Err is always the last one delivered.
	Err error `json:"-"`
}

// ModelDetails describes a model's family and quantization as reported by
// the server.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// ModelInfo is one entry of the server's model catalog.
type ModelInfo struct {
	Name       string       `json:"name"`
	Size       int64        `json:"size"`
	ModifiedAt string       `json:"modified_at"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

// RunningModel describes a model currently loaded in server memory.
type RunningModel struct {
	Name      string       `json:"name"`
	Model     string       `json:"model"`
	Size      int64        `json:"size"`
	Digest    string       `json:"digest"`
	Details   ModelDetails `json:"details"`
	ExpiresAt string       `json:"expires_at"`
	SizeVRAM  int64        `json:"size_vram"`
}

// ShowResponse is the server's detail object for a single model.
type ShowResponse struct {
	License    string         `json:"license"`
	Modelfile  string         `json:"modelfile"`
	Parameters string         `json:"parameters"`
	Template   string         `json:"template"`
	Details    ModelDetails   `json:"details"`
	ModelInfo  map[string]any `json:"model_info"`
}

// PullProgress is one progress update emitted while a model downloads.
type PullProgress struct {
	// Status describes the current phase ("pulling manifest", "success", ...).
	Status string `json:"status"`

	// Digest identifies the layer being transferred, when applicable.
	Digest string `json:"digest,omitempty"`

	// Total is the layer size in bytes, when applicable.
	Total int64 `json:"total,omitempty"`

	// Completed is the number of bytes transferred so far.
	Completed int64 `json:"completed,omitempty"`

	// Err is set instead of a status when the download fails. An update
	// carrying Err is always the last one delivered.
	Err error `json:"-"`
}

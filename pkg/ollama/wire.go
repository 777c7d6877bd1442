package ollama

// Wire-format request and response payloads for the server's JSON API.
// Request types marshal with omitempty so that unset fields are absent
// rather than sent as sentinel values; the server's own defaults apply to
// anything omitted.

type chatRequest struct {
	Model     string         `json:"model"`
	Messages  []wireMessage  `json:"messages"`
	Stream    bool           `json:"stream"`
	KeepAlive string         `json:"keep_alive,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

type wireMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	Images    []string         `json:"images,omitempty"`
	ToolCalls []map[string]any `json:"tool_calls,omitempty"`
}

type generateRequest struct {
	Model     string         `json:"model"`
	Prompt    string         `json:"prompt,omitempty"`
	Stream    bool           `json:"stream"`
	KeepAlive string         `json:"keep_alive,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

type embedRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	KeepAlive string   `json:"keep_alive,omitempty"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// completionBody is the server's response shape for both /api/chat and
// /api/generate, buffered or per streamed line. Chat puts the text under
// message.content, generate under response.
type completionBody struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Message   struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Response string `json:"response"`

	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`

	TotalDuration      int64 `json:"total_duration"`
	LoadDuration       int64 `json:"load_duration"`
	PromptEvalCount    int   `json:"prompt_eval_count"`
	PromptEvalDuration int64 `json:"prompt_eval_duration"`
	EvalCount          int   `json:"eval_count"`
	EvalDuration       int64 `json:"eval_duration"`

	Context []int `json:"context"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

type psResponse struct {
	Models []RunningModel `json:"models"`
}

type modelRequest struct {
	Model string `json:"model"`
}

// options assembles the request options object from explicitly set
// parameters. Unset fields are omitted so the server's defaults govern;
// Extra entries are merged in last as an unvalidated passthrough.
func (p *Parameters) options() map[string]any {
	if p == nil {
		return nil
	}

	opts := make(map[string]any)
	if p.Temperature != nil {
		opts["temperature"] = *p.Temperature
	}
	if p.TopP != nil {
		opts["top_p"] = *p.TopP
	}
	if p.TopK != nil {
		opts["top_k"] = *p.TopK
	}
	if p.MaxTokens != nil {
		opts["num_predict"] = *p.MaxTokens
	}
	if p.Seed != nil {
		opts["seed"] = *p.Seed
	}
	if len(p.StopSequences) > 0 {
		opts["stop"] = p.StopSequences
	}
	for k, v := range p.Extra {
		opts[k] = v
	}

	if len(opts) == 0 {
		return nil
	}
	return opts
}

// toResponse maps a buffered completion body to the provider-agnostic
// Response, selecting the text field by endpoint.
func (b *completionBody) toResponse(chat bool) *Response {
	content := b.Response
	if chat {
		content = b.Message.Content
	}

	return &Response{
		Content:      content,
		Model:        b.Model,
		Role:         RoleAssistant,
		FinishReason: b.DoneReason,
		Usage: TokenUsage{
			PromptTokens:     b.PromptEvalCount,
			CompletionTokens: b.EvalCount,
			TotalTokens:      b.PromptEvalCount + b.EvalCount,
		},
		Metadata: b.metadata(!chat),
	}
}

// metadata collects the server's timing and bookkeeping fields. The
// generate endpoint additionally reports a context token array.
func (b *completionBody) metadata(withContext bool) map[string]any {
	md := map[string]any{
		"created_at":           b.CreatedAt,
		"total_duration":       b.TotalDuration,
		"load_duration":        b.LoadDuration,
		"prompt_eval_count":    b.PromptEvalCount,
		"prompt_eval_duration": b.PromptEvalDuration,
		"eval_count":           b.EvalCount,
		"eval_duration":        b.EvalDuration,
	}
	if withContext && b.Context != nil {
		md["context"] = b.Context
	}
	return md
}

func (b *completionBody) usage() *TokenUsage {
	if b.PromptEvalCount == 0 && b.EvalCount == 0 {
		return nil
	}
	return &TokenUsage{
		PromptTokens:     b.PromptEvalCount,
		CompletionTokens: b.EvalCount,
		TotalTokens:      b.PromptEvalCount + b.EvalCount,
	}
}

func toWireMessages(messages []ChatMessage) []wireMessage {
	out := make([]wireMessage, len(messages))
	for i, m := range messages {
		out[i] = wireMessage{
			Role:      string(m.Role),
			Content:   m.Content,
			Images:    m.Images,
			ToolCalls: m.ToolCalls,
		}
	}
	return out
}

package ollama

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	modelNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+(?::[a-zA-Z0-9._-]+)?$`)
	keepAlivePattern = regexp.MustCompile(`^(\d+)([smhd])$`)
	paramSizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([BMK])`)
)

// ParseModelName splits a model reference into base name and tag. A
// reference without a tag gets "latest".
func ParseModelName(name string) (base, tag string) {
	if base, tag, ok := strings.Cut(name, ":"); ok {
		return base, tag
	}
	return name, "latest"
}

// FormatModelName joins a base name and tag into a model reference. An
// empty tag means "latest".
func FormatModelName(base, tag string) string {
	if tag == "" {
		tag = "latest"
	}
	return base + ":" + tag
}

// ValidateModelName reports whether a model reference uses only the
// characters the server accepts.
func ValidateModelName(name string) bool {
	return modelNamePattern.MatchString(name)
}

// TokensPerSecond derives a generation rate from the server's eval
// metrics, which report duration in nanoseconds.
func TokensPerSecond(evalCount int, evalDuration int64) float64 {
	if evalDuration <= 0 {
		return 0
	}
	return float64(evalCount) / (float64(evalDuration) / float64(time.Second))
}

// ParseKeepAlive converts a keep-alive expression like "5m" or "1h" into a
// duration. An empty expression means the server default of five minutes.
func ParseKeepAlive(keepAlive string) (time.Duration, error) {
	if keepAlive == "" {
		return 5 * time.Minute, nil
	}

	m := keepAlivePattern.FindStringSubmatch(strings.ToLower(keepAlive))
	if m == nil {
		return 0, &ValidationError{Field: "keep_alive", Message: fmt.Sprintf("invalid keep_alive format %q", keepAlive)}
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	var value int64
	fmt.Sscanf(m[1], "%d", &value)
	return time.Duration(value) * unit, nil
}

// FormatDuration renders a server-reported nanosecond duration in the
// nearest unit, matching how the server reports its timing fields.
func FormatDuration(nanoseconds int64) string {
	switch {
	case nanoseconds < 1_000:
		return fmt.Sprintf("%dns", nanoseconds)
	case nanoseconds < 1_000_000:
		return fmt.Sprintf("%.1fµs", float64(nanoseconds)/1_000)
	case nanoseconds < 1_000_000_000:
		return fmt.Sprintf("%.1fms", float64(nanoseconds)/1_000_000)
	default:
		return fmt.Sprintf("%.2fs", float64(nanoseconds)/1_000_000_000)
	}
}

// FormatModelSize renders a byte count in the nearest binary unit.
func FormatModelSize(sizeBytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

// IsEmbeddingModel guesses from the name whether a model produces
// embeddings rather than text.
func IsEmbeddingModel(name string) bool {
	keywords := []string{
		"embed", "embedding", "sentence", "all-minilm", "bge", "e5",
		"instructor", "gte", "multilingual-e5",
	}
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsMultimodalModel guesses from the name whether a model accepts images.
func IsMultimodalModel(name string) bool {
	keywords := []string{"llava", "bakllava", "moondream", "vision"}
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// EstimateMemoryUsage roughly estimates resident memory for a model from
// its parameter size ("7B", "13B") and quantization level ("Q4_0"). It
// returns 0 when the parameter size cannot be parsed. The estimate includes
// a 20% allowance for the KV cache.
func EstimateMemoryUsage(parameterSize, quantization string) int64 {
	m := paramSizePattern.FindStringSubmatch(strings.ToUpper(parameterSize))
	if m == nil {
		return 0
	}

	var value float64
	fmt.Sscanf(m[1], "%f", &value)

	var params float64
	switch m[2] {
	case "B":
		params = value * 1e9
	case "M":
		params = value * 1e6
	case "K":
		params = value * 1e3
	}

	bytesPerParam := 2.0
	switch {
	case strings.Contains(quantization, "Q2"):
		bytesPerParam = 0.25
	case strings.Contains(quantization, "Q3"):
		bytesPerParam = 0.375
	case strings.Contains(quantization, "Q4"):
		bytesPerParam = 0.5
	case strings.Contains(quantization, "Q5"):
		bytesPerParam = 0.625
	case strings.Contains(quantization, "Q6"):
		bytesPerParam = 0.75
	case strings.Contains(quantization, "Q8"):
		bytesPerParam = 1.0
	}

	return int64(params * bytesPerParam * 1.2)
}

// ChunkText splits text into overlapping chunks sized for embedding
// generation, preferring sentence and word boundaries over hard cuts.
func ChunkText(text string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 512
	}
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChunkSize
		if end < len(text) {
			if dot := strings.LastIndex(text[start:end], "."); dot > maxChunkSize/2 {
				end = start + dot + 1
			} else if space := strings.LastIndex(text[start:end], " "); space > maxChunkSize/2 {
				end = start + space
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = max(start+1, end-overlap)
	}
	return chunks
}

package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"mcp-agent/internal/application/port/output"
)

var (
	_ output.TokenCounter = Estimator{}
	_ output.TokenCounter = (*Tiktoken)(nil)
)

const defaultEncoding = "cl100k_base"

var modelEncodings = map[string]string{
	"gpt-4o":        "o200k_base",
	"gpt-4.1":       "o200k_base",
	"gpt-4":         "cl100k_base",
	"gpt-3.5-turbo": "cl100k_base",
}

// Estimator counts four characters as one token.
type Estimator struct{}

func (Estimator) CountTokens(text string) int {
	return len(text) / 4
}

// Tiktoken counts with the BPE encoding of model. The encoding is loaded on
// first use and may need network access; until it loads, or if it fails, the
// Estimator count is returned.
type Tiktoken struct {
	encoding string
	logger   output.LoggerPort

	once    sync.Once
	enc     *tiktoken.Tiktoken
	initErr error
}

func NewTiktoken(model string, logger output.LoggerPort) *Tiktoken {
	return &Tiktoken{encoding: EncodingFor(model), logger: logger}
}

// EncodingFor resolves model by exact name, then by longest known prefix.
func EncodingFor(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if enc, ok := modelEncodings[model]; ok {
		return enc
	}
	best, bestLen := defaultEncoding, 0
	for prefix, enc := range modelEncodings {
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			best, bestLen = enc, len(prefix)
		}
	}
	return best
}

func (t *Tiktoken) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("load tiktoken encoding %s: %w", t.encoding, err)
			t.logger.Warn("Token counting falls back to estimate", "error", t.initErr)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

func (t *Tiktoken) CountTokens(text string) int {
	if err := t.init(); err != nil {
		return Estimator{}.CountTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

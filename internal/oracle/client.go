package oracle

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/PRYANIK26/FullStack-AI-HR/internal/util"
)

// contentGenerator is the minimal surface a model backend must provide.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

const defaultMaxLogLength = 200

// Client implements Oracle on top of a content generator: it renders the
// context into a prompt, performs the blocking model call, and parses the
// structured decision out of the free-text response.
type Client struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewClient wraps a generator into an Oracle.
func NewClient(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Client {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Decide performs one oracle round trip. Any failure, whether transport,
// decode, or validation, is returned as an error; the engine recovers with its
// deterministic fallback and never retries the same turn.
func (c *Client) Decide(ctx context.Context, ic Context) (*Decision, error) {
	prompt := BuildPrompt(ic)

	c.logger.Debug("oracle request",
		zap.String("phase", ic.Phase),
		zap.Int("questions_asked", ic.QuestionsAsked),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("oracle response",
		zap.String("phase", ic.Phase),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, c.maxLogLen)),
	)

	return ParseDecision(raw)
}

// Package vision extracts match statistics from screenshots of stat sheets
// using an Anthropic vision model.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pable/clubstats/internal/logger"
	"github.com/pable/clubstats/internal/model"
)

const extractSystemPrompt = `You read screenshots of football (soccer) match statistics sheets.

Rules:
- Return ONE JSON object and nothing else.
- Use the labels exactly as printed on the sheet as keys.
- Prefix every opponent statistic with "Opp " unless the sheet already labels it.
- Numbers must be JSON numbers; percentages drop the % sign.
- When a statistic is split by half, append "(1st)" or "(2nd)" to the label.
- Omit statistics you cannot read. Never guess values.`

// ErrNoAPIKey is returned when neither the explicit key nor
// ANTHROPIC_API_KEY is set.
var ErrNoAPIKey = errors.New("no API key: set ANTHROPIC_API_KEY or use --api-key")

// ErrNoJSON is returned when the model reply holds no JSON object.
var ErrNoJSON = errors.New("model reply contained no JSON object")

// completeFunc sends one user turn and returns the concatenated reply text.
type completeFunc func(ctx context.Context, params anthropic.MessageNewParams) (string, error)

// Extractor turns stat-sheet images into raw records.
type Extractor struct {
	model     string
	maxTokens int
	complete  completeFunc
	log       logger.Logger
}

// NewExtractor builds an Extractor. apiKey falls back to $ANTHROPIC_API_KEY.
func NewExtractor(apiKey, modelID string, maxTokens int) (*Extractor, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Extractor{
		model:     modelID,
		maxTokens: maxTokens,
		complete:  streamText(client),
		log:       logger.Named("vision"),
	}, nil
}

func streamText(client anthropic.Client) completeFunc {
	return func(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
		stream := client.Messages.NewStreaming(ctx, params)
		var sb strings.Builder
		for stream.Next() {
			evt := stream.Current()
			if evt.Type == "content_block_delta" {
				delta := evt.AsContentBlockDelta()
				if delta.Delta.Type == "text_delta" {
					sb.WriteString(delta.Delta.AsTextDelta().Text)
				}
			}
		}
		if err := stream.Err(); err != nil {
			errStr := err.Error()
			if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
				return "", fmt.Errorf("API authentication failed: check your API key")
			}
			return "", fmt.Errorf("streaming error: %w", err)
		}
		return sb.String(), nil
	}
}

// Extract reads the image at path and returns the statistics it shows, in
// the order the model reported them.
func (e *Extractor) Extract(ctx context.Context, path string) (model.RawRecord, error) {
	mediaType, err := mediaTypeFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	e.log.Info(ctx, "extracting stat sheet",
		logger.String("path", path),
		logger.String("model", e.model),
		logger.Int("bytes", len(data)))

	reply, err := e.complete(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: int64(e.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: extractSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				anthropic.NewTextBlock("Extract every statistic on this sheet as JSON."),
			),
		},
	})
	if err != nil {
		return nil, err
	}

	rec, err := ParseReply(reply)
	if err != nil {
		return nil, err
	}
	e.log.Debug(ctx, "extracted fields", logger.Int("fields", len(rec)))
	return rec, nil
}

// ParseReply decodes the first top-level JSON object in a model reply.
// Surrounding prose and markdown fences are ignored.
func ParseReply(reply string) (model.RawRecord, error) {
	start := strings.IndexByte(reply, '{')
	if start < 0 {
		return nil, ErrNoJSON
	}
	end := matchingBrace(reply, start)
	if end < 0 {
		return nil, ErrNoJSON
	}
	var rec model.RawRecord
	if err := json.Unmarshal([]byte(reply[start:end+1]), &rec); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	return rec, nil
}

// matchingBrace returns the index of the brace closing the one at open,
// skipping braces inside JSON strings.
func matchingBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func mediaTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".gif":
		return "image/gif", nil
	case ".webp":
		return "image/webp", nil
	default:
		return "", fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
}

// logging.go - Request-scoped logging for providers

package ai

import (
	"context"
	"log"

	"github.com/bosocmputer/sar_caption_gemini/internal/common"
)

// logInfo logs through the caller's RequestContext when one is attached to
// ctx, so provider lines carry the request id.
func logInfo(ctx context.Context, format string, args ...interface{}) {
	if rc := common.FromContext(ctx); rc != nil {
		rc.LogInfo(format, args...)
		return
	}
	log.Printf(format, args...)
}

// recordTokens adds token counts to the caller's RequestContext, if any
func recordTokens(ctx context.Context, inputTokens, outputTokens int) {
	if rc := common.FromContext(ctx); rc != nil {
		rc.RecordTokens(inputTokens, outputTokens)
		return
	}
	log.Printf("🪙 Tokens: %d in + %d out = %d", inputTokens, outputTokens, inputTokens+outputTokens)
}

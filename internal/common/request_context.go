// request_context.go - Request tracking and logging system

package common

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// RequestContext tracks a single caption request with timing
type RequestContext struct {
	RequestID        string
	Provider         string
	StartTime        time.Time
	Steps            []StepLog
	TotalTokens      TokenUsage
	CurrentStep      string
	CurrentStepStart time.Time
}

// TokenUsage tracks API token consumption
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx so providers can log under the same
// request id as the handler.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the RequestContext attached to ctx, or nil
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

// StepLog represents a single processing step
type StepLog struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Duration  int64     `json:"duration_ms"`
	Status    string    `json:"status"` // "success", "failed", "skipped"
	Error     string    `json:"error,omitempty"`
}

var stepDescriptions = map[string]string{
	"read_upload":      "📷 Reading uploaded image",
	"build_preview":    "🖼️  Building preview",
	"generate_caption": "🚀 Generating caption",
}

// NewRequestContext creates a new request tracking context
func NewRequestContext(provider string) *RequestContext {
	reqID := uuid.New().String()
	now := time.Now()

	log.Printf("[%s] 🚀 New caption request | Provider: %s | Time: %s", reqID, provider, now.Format("15:04:05"))

	return &RequestContext{
		RequestID: reqID,
		Provider:  provider,
		StartTime: now,
		Steps:     []StepLog{},
	}
}

// StartStep begins tracking a new processing step
func (rc *RequestContext) StartStep(stepName string) {
	rc.CurrentStep = stepName
	rc.CurrentStepStart = time.Now()

	desc := stepDescriptions[stepName]
	if desc == "" {
		desc = stepName
	}

	log.Printf("[%s] ┌── %s", rc.RequestID, desc)
}

// EndStep completes the current step and records timing
func (rc *RequestContext) EndStep(status string, err error) {
	if rc.CurrentStep == "" {
		return
	}

	duration := time.Since(rc.CurrentStepStart).Milliseconds()

	stepLog := StepLog{
		Name:      rc.CurrentStep,
		StartTime: rc.CurrentStepStart,
		Duration:  duration,
		Status:    status,
	}

	if err != nil {
		stepLog.Error = err.Error()
		log.Printf("[%s] └── ❌ FAILED - %s (%.2fs) - Error: %v",
			rc.RequestID, rc.CurrentStep, float64(duration)/1000, err)
	} else {
		log.Printf("[%s] └── ✅ %s: %.2fs", rc.RequestID, status, float64(duration)/1000)
	}

	rc.Steps = append(rc.Steps, stepLog)
	rc.CurrentStep = ""
}

// RecordTokens adds the token counts of one model call to the request totals
func (rc *RequestContext) RecordTokens(inputTokens, outputTokens int) {
	total := inputTokens + outputTokens
	rc.TotalTokens.InputTokens += inputTokens
	rc.TotalTokens.OutputTokens += outputTokens
	rc.TotalTokens.TotalTokens += total

	log.Printf("[%s] 🪙 Tokens: %d in + %d out = %d", rc.RequestID, inputTokens, outputTokens, total)
}

// GetSummary returns a final summary of the entire request
func (rc *RequestContext) GetSummary() map[string]interface{} {
	totalDuration := time.Since(rc.StartTime).Milliseconds()

	stepBreakdown := make(map[string]int64)
	for _, step := range rc.Steps {
		stepBreakdown[step.Name] = step.Duration
	}

	log.Printf("[%s] ⏱️  Total: %.2fs | Steps: %d | 🪙 Tokens: %d", rc.RequestID, float64(totalDuration)/1000, len(rc.Steps), rc.TotalTokens.TotalTokens)

	return map[string]interface{}{
		"request_id":        rc.RequestID,
		"provider":          rc.Provider,
		"total_duration_ms": totalDuration,
		"step_breakdown":    stepBreakdown,
		"total_steps":       len(rc.Steps),
		"token_usage":       rc.TotalTokens,
	}
}

// LogInfo logs info-level message with request ID prefix
func (rc *RequestContext) LogInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] ℹ️  %s", rc.RequestID, msg)
}

// LogWarning logs warning-level message with request ID prefix
func (rc *RequestContext) LogWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] ⚠️  %s", rc.RequestID, msg)
}

// LogError logs error-level message with request ID prefix
func (rc *RequestContext) LogError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] ❌ %s", rc.RequestID, msg)
}

// FormatBytes renders a byte count for log lines
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}

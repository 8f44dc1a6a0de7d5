package explain

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinrag/cds-explainer/internal/answer"
	"github.com/clinrag/cds-explainer/internal/audit"
	"github.com/clinrag/cds-explainer/internal/guardrails"
	"github.com/clinrag/cds-explainer/internal/llm"
	"github.com/clinrag/cds-explainer/internal/patient"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// maxAnswerTokens bounds the generation call. The structured answer is
// small; anything near this limit is a model gone off-script.
const maxAnswerTokens = 2048

// Recorder receives one audit entry per invocation. Implemented by
// audit.Store; nil-safe via the noop used in tests.
type Recorder interface {
	Log(ctx context.Context, entry audit.Entry) error
}

// Engine runs the guarded explain flow. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	store    vectordb.Store
	provider llm.Provider
	model    string
	topK     int
	recorder Recorder
	logger   *zap.Logger
}

// NewEngine creates an Engine. recorder and logger may be nil.
func NewEngine(store vectordb.Store, provider llm.Provider, model string, topK int, recorder Recorder, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = vectordb.DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		provider: provider,
		model:    model,
		topK:     topK,
		recorder: recorder,
		logger:   logger,
	}
}

// Explain runs the full flow for one request: validate, guardrails,
// retrieve, generate once at temperature zero, parse strictly, check
// grounding. Guardrails run before any retrieval or generation; when they
// escalate, no model call is made.
func (e *Engine) Explain(ctx context.Context, req patient.Request) (*Outcome, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		e.record(ctx, audit.StageRejected, nil, start)
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	gr := guardrails.Evaluate(req.Patient)
	if gr.Escalate {
		out := &Outcome{Escalated: true, Message: gr.EscalationMessage}
		e.logger.Info("request escalated",
			zap.Int("red_flags", len(req.Patient.RedFlags)))
		e.record(ctx, audit.StageEscalated, out, start)
		return out, nil
	}

	evs, err := e.store.Search(ctx, retrievalQuery(req), e.topK)
	if err != nil {
		e.record(ctx, audit.StageRetrievalFailed, nil, start)
		return nil, fmt.Errorf("retrieval: %w", err)
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userPrompt(req, evs)},
		},
		MaxTokens:   maxAnswerTokens,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		e.record(ctx, audit.StageGenerationFailed, nil, start)
		return nil, fmt.Errorf("generation: %w", err)
	}

	out := &Outcome{
		Evidence: evidenceRefs(evs),
		Model:    e.model,
	}

	parsed, err := answer.Parse(resp.Content)
	if err != nil {
		out.Unparseable = true
		out.RawText = resp.Content
		e.logger.Warn("model reply failed strict parsing", zap.Error(err))
		e.record(ctx, audit.StageUnparseable, out, start)
		return out, nil
	}

	out.Answer = parsed
	out.MissingFields = gr.MissingFields
	if len(gr.MissingFields) > 0 {
		out.Advisory = MissingFieldsAdvisory
	}

	known := make(map[string]bool, len(evs))
	for _, ev := range evs {
		known[ev.Chunk.ChunkID] = true
	}
	out.GroundingViolations = parsed.GroundingViolations(known)
	if len(out.GroundingViolations) > 0 {
		e.logger.Warn("answer cites chunks outside the evidence pack",
			zap.Strings("chunk_ids", out.GroundingViolations))
	}

	e.record(ctx, audit.StageAnswered, out, start)
	return out, nil
}

// record writes the audit entry for this invocation. Audit failures are
// logged and swallowed: the trail must never block a clinical answer.
func (e *Engine) record(ctx context.Context, stage audit.Stage, out *Outcome, start time.Time) {
	if e.recorder == nil {
		return
	}
	entry := audit.Entry{
		Stage:      stage,
		Model:      e.model,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if out != nil {
		entry.Escalated = out.Escalated
		entry.MissingFieldCount = len(out.MissingFields)
		entry.GroundingViolations = len(out.GroundingViolations)
		entry.EvidenceCount = len(out.Evidence)
	}
	if err := e.recorder.Log(ctx, entry); err != nil {
		e.logger.Warn("failed to write audit entry", zap.Error(err))
	}
}

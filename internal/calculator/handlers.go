package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints over a session store.
type Handler struct {
	store   *Store
	display *display.Formatter
}

func NewHandler(store *Store, formatter *display.Formatter) *Handler {
	return &Handler{store: store, display: formatter}
}

// outcome classifies an evaluator result for metrics and logs.
func outcome(result string) string {
	switch result {
	case calc.ErrorResult:
		return "error"
	case "":
		return "empty"
	default:
		return "ok"
	}
}

// ---------------------------------------------------------------------------
// Handler — stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	result := calc.Evaluate(req.Previous, req.Current, req.Operation)
	kind := outcome(result)

	evaluationsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", req.Operation.String()),
		attribute.String("outcome", kind),
	))

	span.SetAttributes(
		attribute.String("calculator.operand.previous", req.Previous),
		attribute.String("calculator.operand.current", req.Current),
		attribute.String("calculator.operation", req.Operation.String()),
		attribute.String("calculator.result", result),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator evaluation completed",
		zap.String("previous", req.Previous),
		zap.Stringer("operation", req.Operation),
		zap.String("current", req.Current),
		zap.String("result", result),
		zap.String("outcome", kind),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Previous:  req.Previous,
		Operation: req.Operation,
		Current:   req.Current,
		Result:    result,
	})
}

// Keypad handles GET /calculator/keypad
func (h *Handler) Keypad(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, newKeypadResponse(keypad.Layout()))
}

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	sess, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "cannot create session", err, http.StatusServiceUnavailable, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session", sess.ID()))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session", sess.ID()),
		zap.Int("active_sessions", h.store.Len()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, h.snapshot(sess.ID(), sess.State(), nil))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	span := trace.SpanFromContext(ctx)

	sess, ok := h.lookup(ctx, span, logger, "get", w, r)
	if !ok {
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.snapshot(sess.ID(), sess.State(), nil))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(
			attribute.String("calculator.session", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session", id),
		zap.Int("active_sessions", h.store.Len()),
		zap.String("request_id", requestID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — input
// ---------------------------------------------------------------------------

// Dispatch handles POST /calculator/sessions/{id}/actions
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.dispatch",
		trace.WithAttributes(
			attribute.String("calculator.session", chi.URLParam(r, "id")),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess, ok := h.lookup(ctx, span, logger, "dispatch", w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	action, err := req.Action()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "dispatch", "invalid action", err, http.StatusBadRequest, w)
		return
	}

	state := h.apply(ctx, span, logger, sess, action)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, h.snapshot(sess.ID(), state, nil))
}

// Press handles POST /calculator/sessions/{id}/press — one keypad button.
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.press",
		trace.WithAttributes(
			attribute.String("calculator.session", chi.URLParam(r, "id")),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess, ok := h.lookup(ctx, span, logger, "press", w, r)
	if !ok {
		return
	}

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	button, found := keypad.Lookup(req.Label)
	if !found {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "unknown button", fmt.Errorf("no button labelled %q", req.Label), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.button", button.Label))
	state := h.apply(ctx, span, logger, sess, button.Action)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, h.snapshot(sess.ID(), state, nil))
}

// Keys handles POST /calculator/sessions/{id}/keys — replays a sequence of
// keyboard keys, creating a child span for every handled key. Keys the calculator
// does not handle are skipped and reported back.
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the whole key sequence
	ctx, span := tracer.Start(ctx, "calculator.keys",
		trace.WithAttributes(
			attribute.String("calculator.session", chi.URLParam(r, "id")),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess, ok := h.lookup(ctx, span, logger, "keys", w, r)
	if !ok {
		return
	}

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(req.Keys)))

	// Resolve every key first so the whole sequence is applied under one
	// session lock.
	var (
		actions []calc.Action
		indexes []int
		ignored []string
	)
	for i, key := range req.Keys {
		action, handled := keypad.ActionForKey(key)
		if !handled {
			ignored = append(ignored, key)
			continue
		}
		actions = append(actions, action)
		indexes = append(indexes, i)
	}

	start := time.Now()
	steps := sess.DispatchAll(actions)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if len(steps) > 0 {
		elapsed /= float64(len(steps))
	}

	state := sess.State()
	if len(steps) > 0 {
		state = steps[len(steps)-1].After
	}

	for j, step := range steps {
		i := indexes[j]
		keyCtx, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.keys.%d", i),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key", req.Keys[i]),
			),
		)
		h.record(keyCtx, keySpan, logger, sess.ID(), step, elapsed)
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()
	}
	if len(ignored) > 0 {
		span.AddEvent("keys.ignored", trace.WithAttributes(
			attribute.StringSlice("calculator.keys", ignored),
		))
	}

	span.SetAttributes(attribute.Int("calculator.keys_ignored", len(ignored)))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.String("session", sess.ID()),
		zap.Int("keys", len(req.Keys)),
		zap.Strings("ignored", ignored),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, h.snapshot(sess.ID(), state, ignored))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// lookup resolves the {id} URL parameter, writing a 404 when it is unknown.
func (h *Handler) lookup(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, w http.ResponseWriter, r *http.Request) (*Calculator, bool) {
	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, ErrSessionNotFound) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session lookup failed", err, http.StatusInternalServerError, w)
		return nil, false
	}
	return sess, true
}

// apply dispatches one action to the session and records it.
func (h *Handler) apply(ctx context.Context, span trace.Span, logger *zap.Logger, sess *Calculator, action calc.Action) calc.State {
	start := time.Now()
	before, after := sess.Dispatch(action)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	h.record(ctx, span, logger, sess.ID(), Transition{Action: action, Before: before, After: after}, elapsed)
	return after
}

// record emits the metrics, span event and log line for one applied action.
func (h *Handler) record(ctx context.Context, span trace.Span, logger *zap.Logger, id string, step Transition, elapsed float64) {
	action, before, after := step.Action, step.Before, step.After

	changed := before != after
	attrs := metric.WithAttributes(
		attribute.String("action", action.Kind.String()),
		attribute.Bool("changed", changed),
	)
	actionsCounter.Add(ctx, 1, attrs)
	actionsHistogram.Record(ctx, elapsed, attrs)

	if changed && after.Phase == calc.PhaseEvaluated && before.Phase != calc.PhaseEvaluated {
		evaluationsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", before.Operation.String()),
			attribute.String("outcome", outcome(after.CurrentOperand)),
		))
	}

	span.AddEvent("action.applied", trace.WithAttributes(
		attribute.String("action", action.String()),
		attribute.Bool("changed", changed),
		attribute.String("phase", after.Phase.String()),
		attribute.Float64("duration_ms", elapsed),
	))

	logger.Info("calculator action applied",
		zap.String("session", id),
		zap.Stringer("action", action),
		zap.Bool("changed", changed),
		zap.Stringer("phase", after.Phase),
		zap.String("current", after.CurrentOperand),
		zap.Float64("duration_ms", elapsed),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
}

func (h *Handler) snapshot(id string, s calc.State, ignored []string) SessionResponse {
	return SessionResponse{
		ID:      id,
		State:   newStateView(s),
		Display: h.display.View(s),
		Ignored: ignored,
	}
}

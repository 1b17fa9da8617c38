package calculator

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/testutil"
)

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()

	oldLogger := observability.Logger
	observability.Logger = zap.NewNop()
	t.Cleanup(func() { observability.Logger = oldLogger })

	require.NoError(t, InitMetrics())

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(NewStore(limit), display.Default()))
	return r
}

func createSession(t *testing.T, router http.Handler) SessionResponse {
	t.Helper()

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func dispatch(t *testing.T, router http.Handler, id string, req ActionRequest) SessionResponse {
	t.Helper()

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+id+"/actions", req), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func TestEvaluateEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		name string
		body EvaluateRequest
		want string
	}{
		{name: "add", body: EvaluateRequest{Previous: "2", Operation: calc.OpAdd, Current: "3"}, want: "5"},
		{name: "division by zero", body: EvaluateRequest{Previous: "10", Operation: calc.OpDivide, Current: "0"}, want: calc.ErrorResult},
		{name: "unparseable", body: EvaluateRequest{Previous: "-", Operation: calc.OpSubtract, Current: "1"}, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/evaluate", tc.body), router)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp EvaluateResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			assert.Equal(t, tc.want, resp.Result)
			assert.Equal(t, tc.body.Operation, resp.Operation)
		})
	}
}

func TestEvaluateEndpointRejectsUnknownOperation(t *testing.T) {
	router := newTestRouter(t, 0)

	body := map[string]string{"previous": "2", "operation": "^", "current": "3"}
	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/evaluate", body), router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, "invalid request body", resp["error"])
}

func TestKeypadEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodGet, "/calculator/keypad", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeypadResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	require.Len(t, resp.Rows, 5)

	first := resp.Rows[0]
	assert.Equal(t, "AC", first[0].Label)
	assert.Equal(t, "clear", first[0].Action)
	assert.Equal(t, "choose-operation", first[3].Action)
	assert.Equal(t, calc.OpDivide, first[3].Operation)
}

func TestSessionActionsChainLeftToRight(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)
	assert.Equal(t, calc.PhaseEmpty, sess.State.Phase)
	assert.Equal(t, "0", sess.Display.Current)

	dispatch(t, router, sess.ID, ActionRequest{Type: "add-digit", Digit: "5"})
	dispatch(t, router, sess.ID, ActionRequest{Type: "choose-operation", Operation: calc.OpAdd})
	dispatch(t, router, sess.ID, ActionRequest{Type: "add-digit", Digit: "3"})
	got := dispatch(t, router, sess.ID, ActionRequest{Type: "choose-operation", Operation: calc.OpSubtract})

	assert.Equal(t, StateView{
		PreviousOperand: "8",
		Operation:       calc.OpSubtract,
		Phase:           calc.PhaseOperationChosen,
	}, got.State)
	assert.Equal(t, "8 -", got.Display.Previous)
}

func TestSessionDispatchRejectsUnknownAction(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/actions", ActionRequest{Type: "square-root"})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestSessionNotFound(t *testing.T) {
	router := newTestRouter(t, 0)

	for _, req := range []*http.Request{
		testutil.NewJSONRequest(t, http.MethodGet, "/calculator/sessions/missing", nil),
		testutil.NewJSONRequest(t, http.MethodDelete, "/calculator/sessions/missing", nil),
		testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/missing/actions", ActionRequest{Type: "clear"}),
		testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/missing/keys", KeysRequest{Keys: []string{"1"}}),
		testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/missing/press", PressRequest{Label: "1"}),
	} {
		w := testutil.ExecuteRequest(req, router)
		testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
	}
}

func TestSessionLimit(t *testing.T) {
	router := newTestRouter(t, 1)
	createSession(t, router)

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionKeysReportsIgnoredKeys(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)

	body := KeysRequest{Keys: []string{"1", "0", "/", "0", "Tab", "Enter"}}
	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/keys", body), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, calc.ErrorResult, resp.State.CurrentOperand)
	assert.Equal(t, []string{"Tab"}, resp.Ignored)
	assert.Equal(t, calc.ErrorResult, resp.Display.Current)
}

func TestSessionKeysConcurrentRequestsDoNotInterleave(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)

	requests := make([]*http.Request, 20)
	for i := range requests {
		d := strconv.Itoa(i % 5)
		body := KeysRequest{Keys: []string{"Escape", d, "+", d, "Enter"}}
		requests[i] = testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/keys", body)
	}

	var wg sync.WaitGroup
	recorders := make([]*httptest.ResponseRecorder, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recorders[i] = testutil.ExecuteRequest(req, router)
		}()
	}
	wg.Wait()

	for i, w := range recorders {
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)

		var resp SessionResponse
		testutil.DecodeJSONBody(t, w.Body, &resp)
		assert.Equal(t, strconv.Itoa(2*(i%5)), resp.State.CurrentOperand, "request %d", i)
	}
}

func TestSessionKeysRequiresKeys(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/keys", KeysRequest{}), router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestSessionPressButtons(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)

	var resp SessionResponse
	for _, label := range []string{"7", "+/-", "×", "6", "="} {
		w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/press", PressRequest{Label: label}), router)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
		testutil.DecodeJSONBody(t, w.Body, &resp)
	}

	assert.Equal(t, "-42", resp.State.CurrentOperand)

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+sess.ID+"/press", PressRequest{Label: "√"}), router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestSessionGetAndDelete(t *testing.T) {
	router := newTestRouter(t, 0)
	sess := createSession(t, router)
	dispatch(t, router, sess.ID, ActionRequest{Type: "add-digit", Digit: "1"})

	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodGet, "/calculator/sessions/"+sess.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var got SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	assert.Equal(t, "1", got.State.CurrentOperand)

	w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodDelete, "/calculator/sessions/"+sess.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodGet, "/calculator/sessions/"+sess.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestApplyLogsAction(t *testing.T) {
	require.NoError(t, InitMetrics())

	core, logs := observer.New(zap.InfoLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	router := chi.NewRouter()
	RegisterRoutes(router, NewHandler(NewStore(0), display.Default()))
	sess := createSession(t, router)
	dispatch(t, router, sess.ID, ActionRequest{Type: "add-digit", Digit: "3"})

	entries := logs.FilterMessage("calculator action applied").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "add-digit(3)", fields["action"])
	assert.Equal(t, true, fields["changed"])
	assert.Equal(t, "first-operand", fields["phase"])
}

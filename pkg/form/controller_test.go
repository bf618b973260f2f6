package form_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/form"
	"github.com/dukex/leadflow/pkg/mocks"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func workflow(t *testing.T, id string) *models.Workflow {
	t.Helper()

	wf, err := catalog.MustDefault().Workflow(id)
	require.NoError(t, err)

	return wf
}

type webhookRecorder struct {
	mu     sync.Mutex
	calls  int
	path   string
	body   map[string]any
	status int
}

func (r *webhookRecorder) handler(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	r.path = req.URL.Path
	r.body = nil
	_ = json.NewDecoder(req.Body).Decode(&r.body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	_, _ = w.Write([]byte(`{"message":"ok"}`))
}

func (r *webhookRecorder) setStatus(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = status
}

func (r *webhookRecorder) last() (int, string, map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls, r.path, r.body
}

func newWebhook(t *testing.T, status int) (*webhookRecorder, *execution.Client) {
	t.Helper()

	recorder := &webhookRecorder{status: status}
	server := httptest.NewServer(http.HandlerFunc(recorder.handler))
	t.Cleanup(server.Close)

	return recorder, execution.NewClient(execution.Config{BaseURL: server.URL}, discardLogger())
}

func TestController_ScenarioA_SuccessfulSubmission(t *testing.T) {
	t.Parallel()

	recorder, client := newWebhook(t, http.StatusOK)
	notifier := &mocks.MockNotifier{}
	notifier.On("Notify", mock.Anything, "panel-a", mock.AnythingOfType("*events.WorkflowStarted")).Return()

	c := form.NewController("panel-a", workflow(t, "apollo-scraping"), client, notifier, discardLogger())

	require.NoError(t, c.SetField("apolloUrl", "https://app.apollo.io/search"))
	require.NoError(t, c.SetField("scrapeName", "Test"))
	require.NoError(t, c.SetField("straightToEnrich", false))

	assert.Empty(t, c.Validate())

	outcome, err := c.Submit(context.Background())
	require.NoError(t, err)

	calls, path, body := recorder.last()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/webhook-test/startApolloScrape", path)
	assert.Equal(t, map[string]any{
		"apolloUrl":        "https://app.apollo.io/search",
		"scrapeName":       "Test",
		"straightToEnrich": false,
	}, body)

	assert.Equal(t, "Apollo Scraping started successfully!", outcome.Notification.Message)
	assert.Equal(t, events.LevelSuccess, outcome.Notification.Level)
	assert.Equal(t, http.StatusOK, outcome.Response.StatusCode)

	state := c.Snapshot()
	assert.Empty(t, state.Values)
	assert.Empty(t, state.Errors)
	assert.False(t, state.Submitting)

	notifier.AssertExpectations(t)
}

func TestController_ScenarioB_MissingRequiredURL(t *testing.T) {
	t.Parallel()

	executor := &mocks.MockExecutor{}
	notifier := &mocks.MockNotifier{}

	c := form.NewController("panel-b", workflow(t, "apollo-scraping"), executor, notifier, discardLogger())

	require.NoError(t, c.SetField("scrapeName", "Test"))
	require.NoError(t, c.SetField("straightToEnrich", false))

	assert.Equal(t, models.ValidationErrors{"apolloUrl": "Apollo URL is required"}, c.Validate())

	outcome, err := c.Submit(context.Background())
	assert.Nil(t, outcome)
	require.Error(t, err)
	assert.True(t, form.IsValidationFailed(err))

	var validationErr *form.ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, models.ValidationErrors{"apolloUrl": "Apollo URL is required"}, validationErr.Errors)

	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)

	state := c.Snapshot()
	assert.Equal(t, "Apollo URL is required", state.Errors["apolloUrl"])
	assert.Equal(t, "Test", state.Values["scrapeName"])
}

func TestController_ScenarioC_NumberFieldHasNoFormatRule(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-c", workflow(t, "google-maps"), &mocks.MockExecutor{}, nil, discardLogger())

	require.NoError(t, c.SetField("searchTerms", "dental clinics"))
	require.NoError(t, c.SetField("locations", "New York"))
	require.NoError(t, c.SetField("resultsPerSearch", "20"))
	require.NoError(t, c.SetField("scrapeName", "Maps"))

	assert.Empty(t, c.Validate())
}

func TestController_ScenarioD_ServerErrorPreservesState(t *testing.T) {
	t.Parallel()

	recorder, client := newWebhook(t, http.StatusInternalServerError)
	notifier := &mocks.MockNotifier{}
	notifier.On("Notify", mock.Anything, "panel-d", mock.AnythingOfType("*events.WorkflowStartFailed")).Return()

	c := form.NewController("panel-d", workflow(t, "email-validation"), client, notifier, discardLogger())
	require.NoError(t, c.SetField("spreadsheetId", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"))

	before := c.Snapshot()

	outcome, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, execution.IsTransportError(err))
	require.NotNil(t, outcome)
	assert.Equal(t, events.FailureMessage, outcome.Notification.Message)
	assert.Equal(t, events.LevelError, outcome.Notification.Level)
	calls, _, _ := recorder.last()
	assert.Equal(t, 1, calls)

	after := c.Snapshot()
	assert.Equal(t, before.Values, after.Values)
	assert.Equal(t, before.Errors, after.Errors)
	assert.False(t, after.Submitting)

	// Retry reuses the preserved values.
	recorder.setStatus(http.StatusOK)
	notifier.On("Notify", mock.Anything, "panel-d", mock.AnythingOfType("*events.WorkflowStarted")).Return()

	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	_, _, body := recorder.last()
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", body["spreadsheetId"])
}

func TestController_ComingSoonIsNeverSubmitted(t *testing.T) {
	t.Parallel()

	executor := &mocks.MockExecutor{}
	c := form.NewController("panel-soon", workflow(t, "campaign-deploy"), executor, nil, discardLogger())

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrNotSubmittable)
	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_InvalidURL(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-url", workflow(t, "apollo-scraping"), &mocks.MockExecutor{}, nil, discardLogger())

	require.NoError(t, c.SetField("apolloUrl", "not-a-url"))
	require.NoError(t, c.SetField("scrapeName", "Test"))
	assert.Equal(t, models.ValidationErrors{"apolloUrl": models.MessageInvalidURL}, c.Validate())

	require.NoError(t, c.SetField("apolloUrl", "https://app.apollo.io/x"))
	assert.Empty(t, c.Validate())
}

func TestController_ValidateIsIdempotent(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-idem", workflow(t, "google-maps"), &mocks.MockExecutor{}, nil, discardLogger())
	require.NoError(t, c.SetField("locations", "Chicago"))

	first := c.Validate()
	second := c.Validate()

	assert.Equal(t, first, second)
	assert.Equal(t, models.ValidationErrors{
		"searchTerms":      "Search Terms is required",
		"resultsPerSearch": "Results per Search is required",
		"scrapeName":       "Scrape Name is required",
	}, first)
}

func TestController_SetFieldClearsError(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-clear", workflow(t, "apollo-scraping"), &mocks.MockExecutor{}, nil, discardLogger())
	c.Validate()
	require.Len(t, c.Snapshot().Errors, 2)

	// The new value is invalid but the error is only recomputed on validation.
	require.NoError(t, c.SetField("apolloUrl", "not-a-url"))

	state := c.Snapshot()
	assert.NotContains(t, state.Errors, "apolloUrl")
	assert.Contains(t, state.Errors, "scrapeName")
}

func TestController_SetFieldDoesNotKeepCallerKey(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-key", workflow(t, "apollo-scraping"), &mocks.MockExecutor{}, nil, discardLogger())

	// Servers hand out field ids that alias a request buffer reused later.
	buf := []byte("apolloUrl")
	require.NoError(t, c.SetField(unsafe.String(&buf[0], len(buf)), "https://app.apollo.io/search"))
	copy(buf, "scrapeNam")
	require.NoError(t, c.SetField("scrapeName", "Test"))

	values := c.Snapshot().Values
	assert.Equal(t, models.FormValues{
		"apolloUrl":  "https://app.apollo.io/search",
		"scrapeName": "Test",
	}, values)
	assert.Empty(t, c.Validate())
}

func TestController_SetFieldRejectsUnknownAndInvalid(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-bad", workflow(t, "apollo-scraping"), &mocks.MockExecutor{}, nil, discardLogger())

	require.ErrorIs(t, c.SetField("nope", "x"), form.ErrUnknownField)
	require.ErrorIs(t, c.SetField("scrapeName", []string{"x"}), form.ErrInvalidValue)

	require.NoError(t, c.SetField("scrapeName", 12))
	assert.InDelta(t, 12.0, c.Snapshot().Values["scrapeName"], 0)
}

func TestController_RejectsConcurrentSubmit(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})

	var calls atomic.Int32

	executor := &mocks.MockExecutor{}
	executor.On("Execute", mock.Anything, "/leadmagic", mock.Anything).
		Run(func(mock.Arguments) {
			calls.Add(1)
			close(entered)
			<-release
		}).
		Return(&execution.Response{StatusCode: http.StatusOK}, nil).
		Once()

	c := form.NewController("panel-busy", workflow(t, "email-validation"), executor, nil, discardLogger())
	require.NoError(t, c.SetField("spreadsheetId", "sheet"))

	done := make(chan error, 1)

	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("submission never reached the executor")
	}

	assert.True(t, c.Snapshot().Submitting)

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, c.Snapshot().Submitting)
}

func TestController_ExecutorErrorWithoutTransportType(t *testing.T) {
	t.Parallel()

	executor := &mocks.MockExecutor{}
	executor.On("Execute", mock.Anything, "/leadmagic", models.FormValues{"spreadsheetId": "sheet"}).
		Return(nil, errors.New("boom"))

	c := form.NewController("panel-err", workflow(t, "email-validation"), executor, nil, discardLogger())
	require.NoError(t, c.SetField("spreadsheetId", "sheet"))

	outcome, err := c.Submit(context.Background())
	require.EqualError(t, err, "boom")
	assert.Equal(t, events.WorkflowStartFailedEvent, outcome.Notification.Type)
	assert.Equal(t, "sheet", c.Snapshot().Values["spreadsheetId"])
}

func TestController_Reset(t *testing.T) {
	t.Parallel()

	c := form.NewController("panel-reset", workflow(t, "apollo-scraping"), &mocks.MockExecutor{}, nil, discardLogger())
	require.NoError(t, c.SetField("scrapeName", "Test"))
	c.Validate()

	c.Reset()

	state := c.Snapshot()
	assert.Empty(t, state.Values)
	assert.Empty(t, state.Errors)
}

func TestValidationFailedError_Message(t *testing.T) {
	t.Parallel()

	err := &form.ValidationFailedError{Errors: models.ValidationErrors{
		"scrapeName": "Scrape Name is required",
		"apolloUrl":  "Apollo URL is required",
	}}

	assert.Equal(t, "validation failed: apolloUrl: Apollo URL is required; scrapeName: Scrape Name is required", err.Error())
}

package widget

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/nuchat/internal/api"
	apierrors "github.com/diogo/nuchat/internal/errors"
	"github.com/diogo/nuchat/internal/models"
	"github.com/diogo/nuchat/internal/provider"
	"github.com/diogo/nuchat/internal/render"
	"github.com/diogo/nuchat/internal/responder"
	"github.com/diogo/nuchat/internal/status"
)

// stubProvider answers with reply/err, optionally waiting on release first
type stubProvider struct {
	reply   string
	err     error
	release chan struct{}
	started chan struct{}

	mu    sync.Mutex
	calls []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Respond(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, message)
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newWidget(p provider.Provider, opts ...Option) (*Widget, *render.Log) {
	log := render.NewLog(2)
	opts = append([]Option{
		WithSurface(log),
		WithReporter(status.New(time.Second, status.WithManualExpiry())),
	}, opts...)
	return New(p, opts...), log
}

func roles(w *Widget) []models.Role {
	var out []models.Role
	for _, m := range w.Transcript().Messages() {
		out = append(out, m.Role)
	}
	return out
}

func TestSubmit_AppendsUserThenAssistant(t *testing.T) {
	p := &stubProvider{reply: "hello back"}
	w, log := newWidget(p)

	require.NoError(t, w.Submit(context.Background(), "  hello  "))

	msgs := w.Transcript().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Text, "input is trimmed")
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello back", msgs[1].Text)
	assert.False(t, w.Busy())

	assert.Equal(t, 2, log.Len())
	assert.Equal(t, log.ScrollHeight(), log.ScrollTop())
	assert.Equal(t, []string{"hello"}, p.calls)
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\n  "} {
		p := &stubProvider{reply: "x"}
		w, log := newWidget(p)
		w.Reporter().ShowError("previous failure")

		err := w.Submit(context.Background(), raw)

		assert.True(t, apierrors.IsValidationError(err))
		assert.ErrorIs(t, err, apierrors.ErrEmptyMessage)
		assert.Equal(t, 0, w.Transcript().Len())
		assert.Equal(t, 0, log.Len())
		assert.False(t, w.Busy())
		assert.Zero(t, p.callCount())

		_, visible := w.Reporter().Error()
		assert.True(t, visible, "rejected input leaves banners alone")
	}
}

func TestBegin_WhileBusyIsIgnored(t *testing.T) {
	p := &stubProvider{reply: "x"}
	w, _ := newWidget(p)

	_, err := w.Begin("first")
	require.NoError(t, err)
	assert.True(t, w.Busy())

	_, err = w.Begin("second")
	assert.ErrorIs(t, err, apierrors.ErrBusy)
	assert.Equal(t, 1, w.Transcript().Len())

	w.Complete("done", nil)
	assert.False(t, w.Busy())
	assert.Equal(t, []models.Role{models.RoleUser, models.RoleAssistant}, roles(w))
}

func TestSubmit_ConcurrentSubmitsWhileBusy(t *testing.T) {
	p := &stubProvider{reply: "only reply", release: make(chan struct{}), started: make(chan struct{}, 1)}
	w, _ := newWidget(p)

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "first") }()
	<-p.started

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.Submit(context.Background(), "intruder")
			assert.ErrorIs(t, err, apierrors.ErrBusy)
		}()
	}
	wg.Wait()

	close(p.release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, p.callCount())
	msgs := w.Transcript().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "only reply", msgs[1].Text)
	assert.False(t, w.Busy())
}

func TestSubmit_ProviderErrorShowsBannerAndFallback(t *testing.T) {
	p := &stubProvider{err: apierrors.NewAPIError(500, models.PathChat, "boom")}
	w, _ := newWidget(p)

	err := w.Submit(context.Background(), "hi")
	assert.True(t, apierrors.IsAPIError(err))

	text, visible := w.Reporter().Error()
	require.True(t, visible)
	assert.Contains(t, text, "boom")

	last, _ := w.Transcript().Last()
	assert.Equal(t, models.FallbackReply, last.Text)
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.False(t, w.Busy(), "widget returns to idle after failure")

	// next valid submission hides the banner
	p.err = nil
	p.reply = "recovered"
	require.NoError(t, w.Submit(context.Background(), "again"))
	_, visible = w.Reporter().Error()
	assert.False(t, visible)
}

func TestSubmit_NetworkErrorUsesGenericMessage(t *testing.T) {
	p := &stubProvider{err: apierrors.NewNetworkError(models.PathChat, errors.New("refused"))}
	w, _ := newWidget(p)

	_ = w.Submit(context.Background(), "hi")

	text, _ := w.Reporter().Error()
	assert.Equal(t, models.GenericNetworkFailure, text)
}

// doer answers every request with a fixed status and body
type doer struct {
	status int
	body   string
}

func (d doer) Do(*fhttp.Request) (*fhttp.Response, error) {
	return &fhttp.Response{StatusCode: d.status, Body: io.NopCloser(strings.NewReader(d.body))}, nil
}

func remoteWidget(t *testing.T, code int, body string) (*Widget, *render.Log) {
	t.Helper()
	client, err := api.NewClient("http://backend.test/api", api.WithHTTPClient(doer{code, body}))
	require.NoError(t, err)
	return newWidget(provider.NewRemote(client, models.DefaultModel, zerolog.Nop()))
}

func TestRemote_SuccessRendersReply(t *testing.T) {
	w, log := remoteWidget(t, 200, `{"response":"hi"}`)

	require.NoError(t, w.Submit(context.Background(), "hello"))

	last, _ := w.Transcript().Last()
	assert.Equal(t, "hi", last.Text)
	bubbles := log.Bubbles()
	assert.Equal(t, `<div class="message assistant-message">hi</div>`, bubbles[len(bubbles)-1])
}

func TestRemote_ServerErrorShowsBoom(t *testing.T) {
	w, log := remoteWidget(t, 500, `{"error":"boom"}`)

	_ = w.Submit(context.Background(), "hello")

	text, visible := w.Reporter().Error()
	require.True(t, visible)
	assert.Contains(t, text, "boom")
	assert.Contains(t, log.Bubbles()[1], models.FallbackReply)
}

func TestLocal_Exchange(t *testing.T) {
	w, _ := newWidget(provider.NewLocal(responder.Default(), provider.WithDelay(0, time.Millisecond)))

	require.NoError(t, w.Submit(context.Background(), "How do I filter files larger than 1MB?"))
	require.NoError(t, w.Submit(context.Background(), "tell me a joke"))

	msgs := w.Transcript().Messages()
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[1].Text, "ls | where size > 1mb")
	assert.Equal(t, responder.Default().Fallback(), msgs[3].Text)
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		w, _ := remoteWidget(t, 200, `{"status":"ok"}`)
		w.Reporter().ShowError("stale")

		require.NoError(t, w.CheckHealth(context.Background()))
		banner, ok := w.Reporter().Status()
		require.True(t, ok)
		assert.Equal(t, models.HealthConnected, banner.Text)
		assert.Equal(t, status.KindSuccess, banner.Kind)
		_, errVisible := w.Reporter().Error()
		assert.False(t, errVisible)
	})

	t.Run("unreachable", func(t *testing.T) {
		w, _ := remoteWidget(t, 503, ``)

		assert.ErrorIs(t, w.CheckHealth(context.Background()), apierrors.ErrUnhealthy)
		text, ok := w.Reporter().Error()
		require.True(t, ok)
		assert.Equal(t, models.HealthUnreachable, text)
	})

	t.Run("local has no backend", func(t *testing.T) {
		w, _ := newWidget(&stubProvider{})
		assert.NoError(t, w.CheckHealth(context.Background()))
		_, ok := w.Reporter().Status()
		assert.False(t, ok)
	})
}

func TestWelcomeAndClear(t *testing.T) {
	w, log := newWidget(&stubProvider{reply: "x"})

	w.Welcome("")
	assert.Equal(t, 0, w.Transcript().Len())

	w.Welcome(responder.Default().Welcome())
	assert.Equal(t, []models.Role{models.RoleAssistant}, roles(w))
	assert.False(t, w.Busy())

	w.Clear()
	assert.Equal(t, 0, w.Transcript().Len())
	assert.Equal(t, 0, log.Len())
}

func TestSetModel(t *testing.T) {
	w, _ := remoteWidget(t, 200, `{"response":"hi"}`)
	assert.Equal(t, models.DefaultModel, w.Model())
	assert.True(t, w.SetModel(models.ModelGPT35Turbo))
	assert.Equal(t, models.ModelGPT35Turbo, w.Model())

	local, _ := newWidget(&stubProvider{})
	assert.False(t, local.SetModel(models.ModelGPT4))
	assert.Equal(t, "", local.Model())
}

func TestRespond_UsesClock(t *testing.T) {
	ticks := []time.Time{time.Unix(0, 0), time.Unix(2, 0)}
	i := 0
	clock := func() time.Time {
		tm := ticks[min(i, len(ticks)-1)]
		i++
		return tm
	}
	p := &stubProvider{reply: "ok"}
	w := New(p, WithClock(clock))

	text, err := w.Respond(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

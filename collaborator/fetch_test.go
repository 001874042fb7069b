package collaborator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c "lautenbacher.net/lovebox/config"
	u "lautenbacher.net/lovebox/util"
)

type messageServer struct {
	mu     sync.Mutex
	body   string
	status int
	hits   int
}

func (m *messageServer) set(body string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
	m.status = status
}

func (m *messageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
	if r.Header.Get("Cache-Control") != "no-cache" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(m.status)
	w.Write([]byte(m.body))
}

func fetchConf(host string) c.FetchConfig {
	return c.FetchConfig{Host: host, Timeout: time.Second}
}

func TestFetch_ReturnsTrimmedBody(t *testing.T) {
	ms := &messageServer{}
	ms.set("  hello there \n", http.StatusOK)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	f := NewFetchCollaborator("fetch", c.NewSettings("/user/gist/raw/message", 30, 14, 60, 90), fetchConf(srv.URL), u.NewAtomicEvent[string]())
	msg, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg)
}

func TestFetch_StatusError(t *testing.T) {
	ms := &messageServer{}
	ms.set("gone", http.StatusNotFound)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	f := NewFetchCollaborator("fetch", c.NewSettings(srv.URL+"/message", 30, 14, 60, 90), fetchConf("http://unused"), u.NewAtomicEvent[string]())
	_, err := f.Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
}

func TestFetch_PublishesOnlyChanges(t *testing.T) {
	ms := &messageServer{}
	ms.set("first", http.StatusOK)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	msg := u.NewAtomicEvent[string]()
	f := NewFetchCollaborator("fetch", c.NewSettings("/m", 30, 14, 60, 90), fetchConf(srv.URL), msg)

	ctx := context.Background()
	f.fetchOnce(ctx)
	f.fetchOnce(ctx)
	value, seq := msg.Load()
	assert.Equal(t, "first", value)
	assert.Equal(t, uint64(1), seq, "unchanged message is not published again")

	ms.set("second", http.StatusOK)
	f.fetchOnce(ctx)
	value, seq = msg.Load()
	assert.Equal(t, "second", value)
	assert.Equal(t, uint64(2), seq)

	ms.set("", http.StatusInternalServerError)
	f.fetchOnce(ctx)
	value, _ = msg.Load()
	assert.Equal(t, "second", value, "errors keep the last message")
}

func TestFetch_StartFetchesImmediately(t *testing.T) {
	ms := &messageServer{}
	ms.set("hi", http.StatusOK)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	msg := u.NewAtomicEvent[string]()
	f := NewFetchCollaborator("fetch", c.NewSettings("/m", 3600, 14, 60, 90), fetchConf(srv.URL), msg)
	f.Start()
	assert.Eventually(t, func() bool { return msg.Value() == "hi" }, time.Second, 5*time.Millisecond)
	f.Stop()
	assert.False(t, f.IsRunning())
}

func TestFetch_DisabledWithoutLocation(t *testing.T) {
	f := NewFetchCollaborator("fetch", c.DefaultSettings(), fetchConf("http://unused"), u.NewAtomicEvent[string]())
	f.Start()
	assert.False(t, f.IsRunning())
	f.Stop()
}

func TestFetch_TruncatesLongMessage(t *testing.T) {
	// "♥" is three bytes, so the limit falls inside a rune
	long := strings.Repeat("♥", maxMessageSize/3+10)
	ms := &messageServer{}
	ms.set(long, http.StatusOK)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	f := NewFetchCollaborator("fetch", c.NewSettings("/m", 30, 14, 60, 90), fetchConf(srv.URL), u.NewAtomicEvent[string]())
	msg, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(msg), maxMessageSize)
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasPrefix(long, msg))
	assert.Equal(t, maxMessageSize/3, utf8.RuneCountInString(msg))
}

func TestFetch_MessageAtLimitIsKept(t *testing.T) {
	exact := strings.Repeat("a", maxMessageSize)
	ms := &messageServer{}
	ms.set(exact, http.StatusOK)
	srv := httptest.NewServer(ms)
	defer srv.Close()

	f := NewFetchCollaborator("fetch", c.NewSettings("/m", 30, 14, 60, 90), fetchConf(srv.URL), u.NewAtomicEvent[string]())
	msg, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exact, msg)
}

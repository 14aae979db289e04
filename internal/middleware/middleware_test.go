package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"couple-scheduler/internal/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(h...)
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	return r
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	good, err := tokens.Make("u1", "alice")
	require.NoError(t, err)
	other, err := auth.NewTokens("other", time.Hour).Make("u1", "alice")
	require.NoError(t, err)

	r := newRouter(Auth(tokens))
	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + other, http.StatusForbidden},
		{"garbage", "Bearer x.y.z", http.StatusForbidden},
		{"ok", "Bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()
	r := newRouter(rl.Limit())

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f fakeStream) Context() context.Context { return f.ctx }

func TestStreamRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()
	ic := StreamRateLimit(rl)

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 5000}})
	ss := fakeStream{ctx: ctx}
	ok := func(any, grpc.ServerStream) error { return nil }
	info := &grpc.StreamServerInfo{FullMethod: "/couple.v1.Events/Connect"}

	require.NoError(t, ic(nil, ss, info, ok))
	err := ic(nil, ss, info, ok)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := newRouter(RequestLogger(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestStreamLoggerPassesError(t *testing.T) {
	want := errors.New("boom")
	err := StreamLogger(zap.NewNop())(nil, fakeStream{ctx: context.Background()},
		&grpc.StreamServerInfo{FullMethod: "/x"}, func(any, grpc.ServerStream) error { return want })
	assert.ErrorIs(t, err, want)
}

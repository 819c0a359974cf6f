package chatapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/chatapi"
	pkgjwt "github.com/jhoicas/red2blue-api/pkg/jwt"
)

type capture struct {
	path string
	auth string
	body map[string]any
}

func server(t *testing.T, status int, reply string, got *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			got.path = r.URL.Path
			got.auth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_AnonimoUsaLandingChat(t *testing.T) {
	var got capture
	srv := server(t, http.StatusOK, `{"message":"Breathe.","suggestions":["a"],"urgencyLevel":"low"}`, &got)

	reply, err := chatapi.NewClient(srv.URL+"/", nil, nil).Send(context.Background(), coaching.ChatRequest{Message: "hola", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/landing-chat", got.path)
	assert.Equal(t, map[string]any{"message": "hola"}, got.body, "landing solo envía el mensaje")
	assert.Equal(t, &coaching.ChatReply{Message: "Breathe.", Suggestions: []string{"a"}, UrgencyLevel: "low"}, reply)
}

func TestSend_MiembroUsaChatConIdentidad(t *testing.T) {
	var got capture
	srv := server(t, http.StatusOK, `{"message":"ok"}`, &got)

	_, err := chatapi.NewClient(srv.URL, nil, nil).Send(context.Background(), coaching.ChatRequest{Message: "hola", UserID: "u1", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/chat", got.path)
	assert.Equal(t, "u1", got.body["userId"])
	assert.Equal(t, "s1", got.body["sessionId"])
}

func TestSend_Errores(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http 500", http.StatusInternalServerError, `{"message":"boom"}`},
		{"http 404", http.StatusNotFound, ``},
		{"json invalido", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := server(t, tt.status, tt.body, nil)
			reply, err := chatapi.NewClient(srv.URL, nil, nil).Send(context.Background(), coaching.ChatRequest{Message: "x"})
			assert.Error(t, err)
			assert.Nil(t, reply)
		})
	}
}

func TestSend_SinMessageNoEsError(t *testing.T) {
	srv := server(t, http.StatusOK, `{"suggestions":["x"]}`, nil)
	reply, err := chatapi.NewClient(srv.URL, nil, nil).Send(context.Background(), coaching.ChatRequest{Message: "x"})
	require.NoError(t, err)
	assert.Empty(t, reply.Message)
}

func TestSend_RespetaContexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := chatapi.NewClient(srv.URL, nil, nil).Send(ctx, coaching.ChatRequest{Message: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSend_MiembroEnviaBearer(t *testing.T) {
	const secret = "chatapi-test-secret"
	var got capture
	srv := server(t, http.StatusOK, `{"message":"ok"}`, &got)
	c := chatapi.NewClient(srv.URL, nil, chatapi.JWTTokens(secret, "red2blue-test", 5))

	_, err := c.Send(context.Background(), coaching.ChatRequest{Message: "hola", UserID: "u1", SessionID: "s1"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.auth, "Bearer "), "header Authorization: %q", got.auth)
	claims, err := pkgjwt.Parse(secret, strings.TrimPrefix(got.auth, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	_, err = c.Send(context.Background(), coaching.ChatRequest{Message: "hola", SessionID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, "/api/landing-chat", got.path)
	assert.Empty(t, got.auth, "la landing no lleva credencial")
}

func TestSend_FalloDeCredencial(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	boom := errors.New("sin secreto")
	c := chatapi.NewClient(srv.URL, nil, func(context.Context, string) (string, error) { return "", boom })

	_, err := c.Send(context.Background(), coaching.ChatRequest{Message: "hola", UserID: "u1"})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, hits.Load(), "no se llama al backend sin credencial")
}

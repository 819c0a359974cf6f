// Package chatapi implementa el endpoint de chat de los widgets sobre HTTP,
// contra un backend remoto que expone /api/chat y /api/landing-chat.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/red2blue-api/pkg/jwt"
)

var _ coaching.ChatEndpoint = (*Client)(nil)

const (
	memberPath  = "/api/chat"
	landingPath = "/api/landing-chat"

	maxBody = 64 * 1024
)

// TokenSource entrega el bearer con el que se llama a /api/chat en nombre de userID.
type TokenSource func(ctx context.Context, userID string) (string, error)

// JWTTokens firma un token corto por turno con el mismo secreto que valida el backend.
func JWTTokens(secret, issuer string, expMinutes int) TokenSource {
	return func(_ context.Context, userID string) (string, error) {
		return pkgjwt.Generate(secret, userID, "member", "", issuer, expMinutes)
	}
}

// Client adaptador HTTP del puerto coaching.ChatEndpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient construye el cliente. httpClient nil => cliente con timeout de red de 30 s.
// tokens nil => /api/chat se llama sin Authorization.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient, tokens: tokens}
}

// Send hace un POST JSON. Con UserID va a /api/chat (con userId, sessionId y bearer);
// sin él a /api/landing-chat solo con el mensaje. Cualquier no-2xx o JSON inválido es error;
// un cuerpo sin message no lo es.
func (c *Client) Send(ctx context.Context, req coaching.ChatRequest) (*coaching.ChatReply, error) {
	path, body := landingPath, dto.ChatRequest{Message: req.Message}
	if req.UserID != "" {
		path = memberPath
		body.UserID = req.UserID
		body.SessionID = req.SessionID
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("chatapi: serializar request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("chatapi: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.UserID != "" && c.tokens != nil {
		token, err := c.tokens(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("chatapi: credencial para %s: %w", req.UserID, err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chatapi: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("chatapi: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("chatapi: POST %s: HTTP %d", path, resp.StatusCode)
	}

	var out dto.ChatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("chatapi: respuesta no es JSON válido: %w", err)
	}
	return &coaching.ChatReply{
		Message:      out.Message,
		Suggestions:  out.Suggestions,
		UrgencyLevel: out.UrgencyLevel,
	}, nil
}

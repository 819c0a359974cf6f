package pdf_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/pdf"
)

func transcript(owner string) dto.TranscriptDTO {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return dto.TranscriptDTO{
		SessionID:   "s-1",
		Mode:        "landing",
		Owner:       owner,
		CreditCount: 1,
		GeneratedAt: now,
		Messages: []dto.ChatMessageDTO{
			{ID: "1", Role: "assistant", Content: "Hi! I'm Flo.", Timestamp: now},
			{ID: "2", Role: "user", Content: strings.Repeat("I get nervous on the first tee. ", 20), Timestamp: now},
			{ID: "3", Role: "assistant", Content: "Try box breathing before you address the ball.", Timestamp: now},
		},
	}
}

func TestRenderTranscript_GeneraPDF(t *testing.T) {
	g := pdf.NewTranscriptPDFGenerator("Red2Blue", "https://red2blue.example/signup")

	for _, owner := range []string{"", "user-1"} {
		out, err := g.RenderTranscript(context.Background(), transcript(owner))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "owner=%q", owner)
	}
}

func TestRenderTranscript_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewTranscriptPDFGenerator("", "").RenderTranscript(ctx, transcript(""))
	assert.ErrorIs(t, err, context.Canceled)
}

// Package pdf genera la transcripción descargable de una conversación con Flo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Red2Blue + "Conversation with Flo" │ fecha, modo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: sesión / créditos usados                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MENSAJES: hora │ rol │ contenido (alto automático)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de registro + leyenda                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
)

var _ ports.TranscriptRenderer = (*TranscriptPDFGenerator)(nil)

// ── Paleta: del rojo (tensión) al azul (calma) ───────────────────────────────

var (
	colorRed  = &props.Color{Red: 200, Green: 40, Blue: 40}
	colorBlue = &props.Color{Red: 20, Green: 80, Blue: 160}
	colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// TranscriptPDFGenerator implementa ports.TranscriptRenderer usando Maroto v2.
type TranscriptPDFGenerator struct {
	appName   string
	signupURL string
}

// NewTranscriptPDFGenerator construye el generador. signupURL vacío omite el QR.
func NewTranscriptPDFGenerator(appName, signupURL string) *TranscriptPDFGenerator {
	return &TranscriptPDFGenerator{appName: nonEmpty(appName, "Red2Blue"), signupURL: signupURL}
}

// RenderTranscript genera el PDF y devuelve sus bytes.
func (g *TranscriptPDFGenerator) RenderTranscript(ctx context.Context, t dto.TranscriptDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.appName+" - Conversation with Flo", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorBlue, Thickness: 0.5}))
	m.AddRows(summaryRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorBlue, Thickness: 0.3}))
	m.AddRows(messageRows(t.Messages)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(t)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar transcripción: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *TranscriptPDFGenerator) headerRow(t dto.TranscriptDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorRed, Top: 1}),
			text.New("Conversation with Flo", props.Text{Size: 10, Top: 9, Color: colorBlue}),
		),
		col.New(5).Add(
			text.New(t.GeneratedAt.Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Widget: "+t.Mode, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func summaryRow(t dto.TranscriptDTO) core.Row {
	who := "Visitor"
	if t.Owner != "" {
		who = "Member " + t.Owner
	}
	return row.New(10).Add(
		col.New(8).Add(text.New(fmt.Sprintf("Session %s   |   %s", t.SessionID, who), props.Text{
			Size: 8, Top: 3, Color: colorGray,
		})),
		col.New(4).Add(text.New(fmt.Sprintf("Messages sent: %d", t.CreditCount), props.Text{
			Size: 8, Top: 3, Align: align.Right, Color: colorGray,
		})),
	)
}

// messageRows una fila de alto automático por mensaje.
func messageRows(msgs []dto.ChatMessageDTO) []core.Row {
	out := make([]core.Row, 0, len(msgs))
	for _, msg := range msgs {
		label, color := "Flo", colorBlue
		if msg.Role == "user" {
			label, color = "You", colorRed
		}
		out = append(out, row.New().Add(
			col.New(2).Add(text.New(msg.Timestamp.Format("15:04"), props.Text{Size: 7, Top: 2, Color: colorGray})),
			col.New(1).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Color: color})),
			col.New(9).Add(text.New(msg.Content, props.Text{Size: 9, Top: 2, Bottom: 2})),
		))
	}
	return out
}

func (g *TranscriptPDFGenerator) footerRows(t dto.TranscriptDTO) []core.Row {
	legend := text.New(
		"Flo is an AI mental performance coach. This transcript is not medical or psychological advice.",
		props.Text{Size: 7, Color: colorGray, Top: 2},
	)
	if g.signupURL == "" || t.Owner != "" {
		return []core.Row{row.New(10).Add(col.New(12).Add(legend))}
	}
	return []core.Row{
		row.New(35).Add(
			col.New(3).Add(code.NewQr(g.signupURL, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Create a free account to keep talking with Flo.", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorBlue,
				}),
				text.New(g.signupURL, props.Text{Size: 8, Top: 16, Left: 3, Color: colorGray}),
			),
		),
		row.New(10).Add(col.New(12).Add(legend)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Webhook envia alertas operacionais do motor financeiro para um endpoint
// configurável. Entrega é melhor esforço: falha de notificação nunca
// interfere na operação que a disparou.
type Webhook struct {
	URL     string
	Cliente *http.Client
	log     zerolog.Logger
}

// NewWebhook cria o notificador. URL vazia desativa o envio.
func NewWebhook(url string, log zerolog.Logger) *Webhook {
	return &Webhook{
		URL:     url,
		Cliente: &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("componente", "notificacao").Logger(),
	}
}

type alerta struct {
	Evento   string `json:"evento"`
	Mensagem string `json:"mensagem"`
	Dados    any    `json:"dados,omitempty"`
}

// Enviar posta o alerta no webhook configurado.
func (w *Webhook) Enviar(ctx context.Context, evento, mensagem string, dados any) {
	if w == nil || w.URL == "" {
		return
	}

	corpo, err := json.Marshal(alerta{Evento: evento, Mensagem: mensagem, Dados: dados})
	if err != nil {
		w.log.Error().Err(err).Str("evento", evento).Msg("montar alerta")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewBuffer(corpo))
	if err != nil {
		w.log.Error().Err(err).Str("evento", evento).Msg("montar requisição de alerta")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Cliente.Do(req)
	if err != nil {
		w.log.Warn().Err(err).Str("evento", evento).Msg("enviar webhook")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		w.log.Warn().Int("status", resp.StatusCode).Str("evento", evento).Msg("webhook recusado")
	}
}

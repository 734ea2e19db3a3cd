// internal/cobranca/emissor.go
package cobranca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ImobFlow/api-financeiro/internal/boleto"
	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Emissor é o colaborador externo de emissão bancária. Falhas vêm
// classificadas como transitórias (retry a cargo do chamador) ou
// permanentes (falha terminal do item).
type Emissor interface {
	Registrar(ctx context.Context, b *boleto.Boleto) (externoID string, err error)
	Baixar(ctx context.Context, externoID string) error
}

// EmissorHTTP fala com a API bancária de cobrança via JSON/HTTP.
type EmissorHTTP struct {
	BaseURL string
	Token   string
	Cliente *http.Client
	log     zerolog.Logger
}

// NewEmissorHTTP cria o cliente da API bancária.
func NewEmissorHTTP(baseURL, token string, log zerolog.Logger) *EmissorHTTP {
	return &EmissorHTTP{
		BaseURL: baseURL,
		Token:   token,
		Cliente: &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("componente", "emissor").Logger(),
	}
}

type registroPayload struct {
	NossoNumero     string `json:"nossoNumero"`
	Valor           string `json:"valor"`
	DataVencimento  string `json:"dataVencimento"`
	DataLimite      string `json:"dataLimite,omitempty"`
	TipoDesconto    string `json:"tipoDesconto"`
	ValorDesconto   string `json:"valorDesconto,omitempty"`
	DataDesconto    string `json:"dataDesconto,omitempty"`
	TipoJuros       string `json:"tipoJuros"`
	ValorJuros      string `json:"valorJuros,omitempty"`
	TipoMulta       string `json:"tipoMulta"`
	ValorMulta      string `json:"valorMulta,omitempty"`
	MensagemPagador string `json:"mensagemPagador,omitempty"`
}

type registroResposta struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Mensagem string `json:"mensagem"`
}

// Registrar envia o boleto para registro e devolve o id externo.
func (e *EmissorHTTP) Registrar(ctx context.Context, b *boleto.Boleto) (string, error) {
	payload := registroPayload{
		NossoNumero:     b.NossoNumero,
		Valor:           b.ValorNominal.StringFixed(2),
		DataVencimento:  b.DataVencimento.Format("2006-01-02"),
		TipoDesconto:    b.TipoDesconto,
		TipoJuros:       b.TipoJuros,
		TipoMulta:       b.TipoMulta,
		MensagemPagador: b.MensagemPagador,
	}
	if !b.DataLimitePagamento.IsZero() {
		payload.DataLimite = b.DataLimitePagamento.Format("2006-01-02")
	}
	if b.TipoDesconto != boleto.DescontoIsento {
		payload.ValorDesconto = b.ValorDesconto.StringFixed(2)
		if b.DataDesconto != nil {
			payload.DataDesconto = b.DataDesconto.Format("2006-01-02")
		}
	}
	if b.TipoJuros != boleto.JurosIsento {
		payload.ValorJuros = b.ValorJuros.String()
	}
	if b.TipoMulta != boleto.MultaIsento {
		payload.ValorMulta = b.ValorMulta.StringFixed(2)
	}

	var resposta registroResposta
	if err := e.post(ctx, "/api/v1/boletos", payload, &resposta); err != nil {
		return "", err
	}
	if resposta.ID == "" {
		return "", erros.FalhaExterna(nil, false, "registro sem id externo: %s", resposta.Mensagem)
	}
	return resposta.ID, nil
}

// Baixar solicita a baixa do boleto registrado.
func (e *EmissorHTTP) Baixar(ctx context.Context, externoID string) error {
	caminho := fmt.Sprintf("/api/v1/boletos/%s/baixa", externoID)
	return e.post(ctx, caminho, map[string]string{"motivo": "SOLICITACAO_BENEFICIARIO"}, nil)
}

func (e *EmissorHTTP) post(ctx context.Context, caminho string, payload, destino any) error {
	corpo, err := json.Marshal(payload)
	if err != nil {
		return erros.FalhaExterna(err, false, "montar payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+caminho, bytes.NewBuffer(corpo))
	if err != nil {
		return erros.FalhaExterna(err, false, "montar requisição")
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}

	resp, err := e.Cliente.Do(req)
	if err != nil {
		// Falha de rede/timeout é transitória.
		return erros.FalhaExterna(err, true, "chamar API bancária")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return erros.FalhaExterna(nil, true, "API bancária indisponível (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		detalhe, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return erros.FalhaExterna(nil, false, "API bancária recusou (HTTP %d): %s", resp.StatusCode, string(detalhe))
	}

	if destino != nil {
		if err := json.NewDecoder(resp.Body).Decode(destino); err != nil {
			return erros.FalhaExterna(err, false, "decodificar resposta")
		}
	}
	return nil
}

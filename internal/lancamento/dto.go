// internal/lancamento/dto.go
package lancamento

import (
	"time"

	"github.com/shopspring/decimal"
)

// CriarLancamentoDTO é o payload de criação manual de lançamento.
type CriarLancamentoDTO struct {
	Tipo           string          `json:"tipo"`
	Valor          decimal.Decimal `json:"valor"`
	ValorDesconto  decimal.Decimal `json:"valorDesconto"`
	ValorJuros     decimal.Decimal `json:"valorJuros"`
	ValorMulta     decimal.Decimal `json:"valorMulta"`
	DataMovimento  string          `json:"dataMovimento"`  // YYYY-MM-DD
	DataVencimento string          `json:"dataVencimento"` // YYYY-MM-DD
	Competencia    string          `json:"competencia"`    // YYYY-MM, default = mês do vencimento
	PlanoContas    string          `json:"planoContas"`
	Historico      string          `json:"historico"`
	TipoItem       string          `json:"tipoItem"`

	PagadorID       *uint `json:"pagadorId"`
	CredorID        *uint `json:"credorId"`
	LocadorID       *uint `json:"locadorId"`
	ContratoID      *uint `json:"contratoId"`
	ImovelID        *uint `json:"imovelId"`
	ContaBancariaID *uint `json:"contaBancariaId"`

	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	FormaPagamento  string `json:"formaPagamento"`
	Observacoes     string `json:"observacoes"`

	ReterINSS bool            `json:"reterInss"`
	PercINSS  decimal.Decimal `json:"percInss"`
	ReterISS  bool            `json:"reterIss"`
	PercISS   decimal.Decimal `json:"percIss"`
}

// BaixaDTO é o payload de baixa (pagamento) de um lançamento.
type BaixaDTO struct {
	DataPagamento   string          `json:"dataPagamento"` // YYYY-MM-DD
	ValorPago       decimal.Decimal `json:"valorPago"`
	FormaPagamento  string          `json:"formaPagamento"`
	NumeroDocumento string          `json:"numeroDocumento"`
	ContaBancariaID *uint           `json:"contaBancariaId"`
	Observacoes     string          `json:"observacoes"`
}

// MotivoDTO carrega o motivo de cancelamento/estorno.
type MotivoDTO struct {
	Motivo string `json:"motivo"`
}

// GeracaoDTO parametriza a geração por competência.
type GeracaoDTO struct {
	Competencia   string `json:"competencia"`
	LocadorInicio uint   `json:"locadorInicio"`
	LocadorFim    uint   `json:"locadorFim"`
	Reprocessar   bool   `json:"reprocessar"`
}

// ResultadoGeracao acumula o desfecho da geração por competência.
type ResultadoGeracao struct {
	Competencia string           `json:"competencia"`
	Processados int              `json:"processados"`
	Criados     int              `json:"criados"`
	Atualizados int              `json:"atualizados"`
	Ignorados   int              `json:"ignorados"`
	Erros       int              `json:"erros"`
	Detalhes    []DetalheGeracao `json:"detalhes"`
}

// DetalheGeracao registra o desfecho de um contrato dentro do lote.
type DetalheGeracao struct {
	ContratoID uint   `json:"contratoId"`
	Situacao   string `json:"situacao"` // criado, atualizado, ignorado, erro
	Mensagem   string `json:"mensagem,omitempty"`
}

// Estatisticas resume o razão por status e valores agregados.
type Estatisticas struct {
	Total         int64           `json:"total"`
	Pendentes     int64           `json:"pendentes"`
	Pagos         int64           `json:"pagos"`
	Cancelados    int64           `json:"cancelados"`
	Estornados    int64           `json:"estornados"`
	EmAtraso      int64           `json:"emAtraso"` // pendentes já vencidos
	ValorTotal    decimal.Decimal `json:"valorTotal"`
	ValorPago     decimal.Decimal `json:"valorPago"`
	ValorEmAberto decimal.Decimal `json:"valorEmAberto"`
}

// parseData aceita YYYY-MM-DD e, como tolerância, RFC3339.
func parseData(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

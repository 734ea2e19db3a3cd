package prestacao

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// PreviaDTO descreve o pedido de prévia de prestação de contas. A prévia
// também é o insumo da aprovação: aprovar recalcula a seleção na hora para
// nunca persistir um resumo defasado.
type PreviaDTO struct {
	LocadorID        uint   `json:"locadorId"`
	ImovelID         *uint  `json:"imovelId,omitempty"`
	TipoPeriodo      string `json:"tipoPeriodo"`
	DataInicio       string `json:"dataInicio,omitempty"` // YYYY-MM-DD, período personalizado
	DataFim          string `json:"dataFim,omitempty"`
	DataBase         string `json:"dataBase,omitempty"` // referência dos períodos calculados
	IncluirPendentes bool   `json:"incluirPendentes"`
}

// Previa é o resultado do cálculo, nunca persistido.
type Previa struct {
	Prestacao Prestacao `json:"prestacao"`
	SemItens  bool      `json:"semItens"`

	lancamentoIDs []uint
}

// RepasseDTO registra o pagamento do repasse ao locador.
type RepasseDTO struct {
	Data            string `json:"data"` // YYYY-MM-DD
	FormaPagamento  string `json:"formaPagamento"`
	ContaBancariaID *uint  `json:"contaBancariaId,omitempty"`
	Comprovante     string `json:"comprovante,omitempty"`
	Observacoes     string `json:"observacoes,omitempty"`
}

// Estatisticas resume as prestações por status.
type Estatisticas struct {
	Total             int64           `json:"total"`
	Geradas           int64           `json:"geradas"`
	AguardandoRepasse int64           `json:"aguardandoRepasse"` // aprovadas sem repasse
	Pagas             int64           `json:"pagas"`
	Canceladas        int64           `json:"canceladas"`
	ValorTotalRepasse decimal.Decimal `json:"valorTotalRepasse"`
}

// MotivoDTO carrega o motivo de um cancelamento.
type MotivoDTO struct {
	Motivo string `json:"motivo"`
}

func parseData(valor, campo string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", valor)
	if err != nil {
		return time.Time{}, erros.Validacao("%s inválida: use o formato YYYY-MM-DD", campo)
	}
	return t, nil
}

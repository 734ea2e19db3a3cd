package lancamento

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Direção do lançamento.
const (
	TipoPagar   = "PAGAR"
	TipoReceber = "RECEBER"
)

// Ciclo de vida: PENDENTE → PAGO → ESTORNADO; PENDENTE → CANCELADO.
// PAGO só sai via estorno; CANCELADO e ESTORNADO são terminais.
const (
	StatusPendente  = "PENDENTE"
	StatusPago      = "PAGO"
	StatusCancelado = "CANCELADO"
	StatusEstornado = "ESTORNADO"
)

// Origem do lançamento.
const (
	OrigemManual  = "MANUAL"
	OrigemGeracao = "GERACAO_AUTOMATICA"
)

// Lancamento é a entrada do razão de contas a pagar/receber. Lançamentos
// nunca são apagados fisicamente: cancelamento e estorno são transições de
// estado com motivo e carimbo de data.
type Lancamento struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Numero int    `gorm:"not null;uniqueIndex:ux_lancamentos_tipo_numero" json:"numero"` // sequencial por tipo
	Tipo   string `gorm:"size:10;not null;index;uniqueIndex:ux_lancamentos_tipo_numero" json:"tipo"`
	Status string `gorm:"size:20;not null;default:'PENDENTE';index" json:"status"`

	Valor         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor"`
	ValorDesconto decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorDesconto"`
	ValorJuros    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorJuros"`
	ValorMulta    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorMulta"`
	ValorPago     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorPago"`

	DataMovimento  time.Time  `gorm:"not null;index" json:"dataMovimento"`
	DataVencimento time.Time  `gorm:"not null;index" json:"dataVencimento"`
	DataPagamento  *time.Time `json:"dataPagamento,omitempty"`
	Competencia    string     `gorm:"size:7;not null;index" json:"competencia"` // YYYY-MM

	PlanoContas string `gorm:"size:20" json:"planoContas"` // código do plano de contas
	Historico   string `gorm:"size:255" json:"historico"`
	TipoItem    string `gorm:"size:50;index" json:"tipoItem"` // rubrica (ALUGUEL, CONDOMINIO...)

	// Referências externas, sempre por id opaco.
	PagadorID       *uint `gorm:"index" json:"pagadorId,omitempty"`
	CredorID        *uint `gorm:"index" json:"credorId,omitempty"`
	LocadorID       *uint `gorm:"index" json:"locadorId,omitempty"` // proprietário beneficiário
	ContratoID      *uint `gorm:"index" json:"contratoId,omitempty"`
	ImovelID        *uint `gorm:"index" json:"imovelId,omitempty"`
	ContaBancariaID *uint `json:"contaBancariaId,omitempty"`

	TipoDocumento   string `gorm:"size:50" json:"tipoDocumento"`
	NumeroDocumento string `gorm:"size:50" json:"numeroDocumento"`
	FormaPagamento  string `gorm:"size:50" json:"formaPagamento"`
	Origem          string `gorm:"size:30;not null;default:'MANUAL'" json:"origem"`
	Observacoes     string `gorm:"type:text" json:"observacoes"`

	// Retenções independentes, calculadas sobre o valor do próprio lançamento.
	ReterINSS bool            `gorm:"not null;default:false" json:"reterInss"`
	PercINSS  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"percInss"`
	ValorINSS decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorInss"`
	ReterISS  bool            `gorm:"not null;default:false" json:"reterIss"`
	PercISS   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"percIss"`
	ValorISS  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorIss"`

	MotivoCancelamento string     `gorm:"size:255" json:"motivoCancelamento,omitempty"`
	CanceladoEm        *time.Time `json:"canceladoEm,omitempty"`
	MotivoEstorno      string     `gorm:"size:255" json:"motivoEstorno,omitempty"`
	EstornadoEm        *time.Time `json:"estornadoEm,omitempty"`

	// Reivindicação por prestação de contas aprovada; um lançamento
	// reivindicado não entra em outra prestação.
	PrestacaoID *uint `gorm:"index" json:"prestacaoId,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// EhTerminal informa se o lançamento não admite mais transições
// (exceto o único caminho PAGO→ESTORNADO).
func (l *Lancamento) EhTerminal() bool {
	return l.Status == StatusCancelado || l.Status == StatusEstornado
}

// RetencaoTotal soma as retenções calculadas do lançamento.
func (l *Lancamento) RetencaoTotal() decimal.Decimal {
	return l.ValorINSS.Add(l.ValorISS)
}

// Migrate cria a tabela de lançamentos.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Lancamento{})
}

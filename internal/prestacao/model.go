package prestacao

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ciclo de vida: a prévia é efêmera e só vira registro na aprovação.
// GERADO → APROVADO → CANCELADO; APROVADO → PAGO quando o repasse é lançado.
const (
	StatusGerado    = "GERADO"
	StatusAprovado  = "APROVADO"
	StatusCancelado = "CANCELADO"
	StatusPago      = "PAGO"
)

// Prestacao é a prestação de contas do locador: o conjunto fechado de
// lançamentos de um período com o resumo congelado na aprovação.
type Prestacao struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LocadorID uint  `gorm:"not null;index" json:"locadorId"`
	ImovelID  *uint `gorm:"index" json:"imovelId,omitempty"`

	TipoPeriodo string    `gorm:"size:20;not null" json:"tipoPeriodo"`
	DataInicio  time.Time `gorm:"not null;index" json:"dataInicio"`
	DataFim     time.Time `gorm:"not null;index" json:"dataFim"`
	Competencia string    `gorm:"size:7;index" json:"competencia"`

	IncluirPendentes bool `gorm:"not null;default:false" json:"incluirPendentes"`

	Status string `gorm:"size:20;not null;default:'GERADO';index" json:"status"`

	// Resumo congelado na aprovação.
	QtdItens       int             `gorm:"not null;default:0" json:"qtdItens"`
	TotalReceitas  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalReceitas"`
	TotalTaxaAdmin decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalTaxaAdmin"`
	TotalRetencao  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalRetencao"`
	TotalDespesas  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalDespesas"`
	ValorRepasse   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorRepasse"`

	MotivoCancelamento string     `gorm:"size:255" json:"motivoCancelamento,omitempty"`
	CanceladoEm        *time.Time `json:"canceladoEm,omitempty"`

	// Registro do repasse ao locador, preenchido após a aprovação.
	RepasseData            *time.Time `json:"repasseData,omitempty"`
	RepasseFormaPagamento  string     `gorm:"size:50" json:"repasseFormaPagamento,omitempty"`
	RepasseContaBancariaID *uint      `json:"repasseContaBancariaId,omitempty"`
	RepasseComprovante     string     `gorm:"size:255" json:"repasseComprovante,omitempty"`
	RepasseObservacoes     string     `gorm:"type:text" json:"repasseObservacoes,omitempty"`

	Itens []Item `gorm:"foreignKey:PrestacaoID" json:"itens,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Item guarda a fotografia de um lançamento no momento da aprovação; os
// valores ficam congelados mesmo que o lançamento seja estornado depois.
type Item struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	PrestacaoID  uint `gorm:"not null;index" json:"prestacaoId"`
	LancamentoID uint `gorm:"not null;index" json:"lancamentoId"`

	Tipo        string `gorm:"size:10;not null" json:"tipo"`
	TipoItem    string `gorm:"size:50" json:"tipoItem"`
	Historico   string `gorm:"size:255" json:"historico"`
	Competencia string `gorm:"size:7" json:"competencia"`

	Valor    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor"`
	Retencao decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"retencao"`

	// Lançamentos pendentes entram apenas como informação; não compõem o
	// repasse nem são reivindicados.
	Informativo bool `gorm:"not null;default:false" json:"informativo"`

	DataMovimento time.Time `gorm:"not null" json:"dataMovimento"`

	CreatedAt time.Time `json:"createdAt"`
}

// TemRepasse informa se um repasse já foi registrado.
func (p *Prestacao) TemRepasse() bool {
	return p.RepasseData != nil
}

// Migrate cria as tabelas de prestação de contas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Prestacao{}, &Item{})
}

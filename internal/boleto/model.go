package boleto

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estado de registro do boleto junto ao banco.
const (
	StatusPendente   = "PENDENTE"   // rascunho, ainda não registrado
	StatusRegistrado = "REGISTRADO" // aceito pela API bancária
	StatusPago       = "PAGO"       // liquidado
	StatusBaixado    = "BAIXADO"    // cancelado junto ao banco
	StatusErro       = "ERRO"       // registro recusado
)

// Políticas de desconto.
const (
	DescontoIsento             = "ISENTO"
	DescontoValorDataFixa      = "VALOR_DATA_FIXA"
	DescontoPercentualDataFixa = "PERCENTUAL_DATA_FIXA"
)

// Políticas de juros de mora.
const (
	JurosIsento        = "ISENTO"
	JurosValorDia      = "VALOR_DIA"
	JurosPercentualMes = "PERCENTUAL_MES"
)

// Políticas de multa.
const (
	MultaIsento     = "ISENTO"
	MultaValorFixo  = "VALOR_FIXO"
	MultaPercentual = "PERCENTUAL"
)

// Boleto é o instrumento de cobrança de um lançamento RECEBER (0..1 por
// lançamento). Criado em PENDENTE; o coordenador de lotes registra, baixa e
// reflete desfechos no lançamento dono.
type Boleto struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LancamentoID uint   `gorm:"not null;uniqueIndex" json:"lancamentoId"`
	NossoNumero  string `gorm:"size:40;not null;uniqueIndex" json:"nossoNumero"`
	ExternoID    string `gorm:"size:100;index" json:"externoId"` // id devolvido pelo banco

	ValorNominal        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valorNominal"`
	DataVencimento      time.Time       `gorm:"not null" json:"dataVencimento"`
	DataLimitePagamento time.Time       `json:"dataLimitePagamento"`

	TipoDesconto  string          `gorm:"size:30;not null;default:'ISENTO'" json:"tipoDesconto"`
	ValorDesconto decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorDesconto"`
	DataDesconto  *time.Time      `json:"dataDesconto,omitempty"`

	TipoJuros  string          `gorm:"size:30;not null;default:'ISENTO'" json:"tipoJuros"`
	ValorJuros decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"valorJuros"` // R$/dia ou %/mês

	TipoMulta  string          `gorm:"size:30;not null;default:'ISENTO'" json:"tipoMulta"`
	ValorMulta decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valorMulta"`
	DataMulta  *time.Time      `json:"dataMulta,omitempty"` // default: vencimento + 1 dia

	MensagemPagador   string `gorm:"size:500" json:"mensagemPagador"`
	ConfiguracaoAPIID uint   `gorm:"not null" json:"configuracaoApiId"`
	MensagemErro      string `gorm:"size:500" json:"mensagemErro,omitempty"`

	Status    string         `gorm:"size:20;not null;default:'PENDENTE';index" json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// InicioMulta resolve a data em que a multa passa a incidir.
func (b *Boleto) InicioMulta() time.Time {
	if b.DataMulta != nil {
		return *b.DataMulta
	}
	return b.DataVencimento.AddDate(0, 0, 1)
}

// PodeRegistrar informa se o boleto ainda está apto a ir para o banco.
func (b *Boleto) PodeRegistrar() bool {
	return b.Status == StatusPendente || b.Status == StatusErro
}

// PodeBaixar informa se o boleto admite baixa junto ao banco.
func (b *Boleto) PodeBaixar() bool {
	return b.Status == StatusPendente || b.Status == StatusRegistrado
}

// Migrate cria a tabela de boletos.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Boleto{})
}

package contrato

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/moeda"
)

// Tipos de item de cobrança recorrente de um contrato de locação.
const (
	ItemAluguel    = "ALUGUEL"
	ItemCondominio = "CONDOMINIO"
	ItemIPTU       = "IPTU"
	ItemAgua       = "AGUA"
	ItemLuz        = "LUZ"
	ItemGas        = "GAS"
	ItemSeguro     = "SEGURO"
	ItemOutros     = "OUTROS"
)

// Modalidades de valor de um item de cobrança.
const (
	ValorFixo       = "FIXO"
	ValorPercentual = "PERCENTUAL" // percentual sobre o aluguel
)

// Contrato é o contrato de locação visto pelo motor financeiro: referência
// externa que fornece locador, locatário, dia de vencimento, taxa de
// administração e os itens cobrados mês a mês.
type Contrato struct {
	gorm.Model

	ImovelID    uint `gorm:"not null;index" json:"imovelId"`
	LocadorID   uint `gorm:"not null;index" json:"locadorId"`   // proprietário
	LocatarioID uint `gorm:"not null;index" json:"locatarioId"` // pagador

	ValorAluguel      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valorAluguel"`
	DiaVencimento     int             `gorm:"not null;default:10" json:"diaVencimento"`
	TaxaAdministracao decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"taxaAdministracao"` // percentual 0-100
	ContaBancariaID   *uint           `json:"contaBancariaId,omitempty"`
	InicioLocacao     time.Time       `json:"inicioLocacao"`
	FimLocacao        time.Time       `json:"fimLocacao"`
	Ativo             bool            `gorm:"not null;default:true;index" json:"ativo"`
	GerarAutomatico   bool            `gorm:"not null;default:true" json:"gerarAutomatico"`
	DiasAntecedencia  int             `gorm:"not null;default:5" json:"diasAntecedencia"`

	Itens []ItemCobranca `gorm:"foreignKey:ContratoID;constraint:OnDelete:CASCADE" json:"itens"`
}

// ItemCobranca é uma rubrica recorrente do contrato (aluguel, condomínio...).
type ItemCobranca struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ContratoID uint            `gorm:"not null;index" json:"contratoId"`
	TipoItem   string          `gorm:"size:50;not null" json:"tipoItem"`
	Descricao  string          `gorm:"size:255" json:"descricao"`
	TipoValor  string          `gorm:"size:20;not null;default:'FIXO'" json:"tipoValor"`
	Valor      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"valor"`
	Ativo      bool            `gorm:"not null;default:true" json:"ativo"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ValorEfetivo resolve o valor do item; itens percentuais incidem sobre o
// valor do aluguel do contrato.
func (i ItemCobranca) ValorEfetivo(valorAluguel decimal.Decimal) decimal.Decimal {
	if i.TipoValor == ValorPercentual {
		return moeda.Percentual(valorAluguel, i.Valor)
	}
	return moeda.Arredondar(i.Valor)
}

// ItensAtivos filtra as rubricas ativas. Sem rubrica configurada o contrato
// cobra apenas o aluguel.
func (c *Contrato) ItensAtivos() []ItemCobranca {
	ativos := make([]ItemCobranca, 0, len(c.Itens))
	for _, item := range c.Itens {
		if item.Ativo {
			ativos = append(ativos, item)
		}
	}
	return ativos
}

// Migrate cria as tabelas de contratos e itens.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Contrato{}, &ItemCobranca{})
}

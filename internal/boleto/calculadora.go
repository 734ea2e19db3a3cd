// internal/boleto/calculadora.go
package boleto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ImobFlow/api-financeiro/internal/moeda"
)

var trinta = decimal.NewFromInt(30)

// CalcularValorDevido avalia o valor a pagar do boleto na data informada.
// Função pura e determinística:
//
//  1. base = valor nominal;
//  2. desconto aplica até a data de corte, inclusive, e nunca deixa a base
//     negativa;
//  3. juros incidem por dia corrido de atraso após o vencimento
//     (percentual mensal pro-rata a 1/30 por dia);
//  4. multa incide a partir da sua data de início (default vencimento+1);
//  5. resultado arredondado half-up em 2 casas, nunca negativo.
func CalcularValorDevido(b *Boleto, dataPagamento time.Time) decimal.Decimal {
	base := b.ValorNominal

	// Desconto
	if b.DataDesconto != nil && !dataPagamento.After(*b.DataDesconto) {
		switch b.TipoDesconto {
		case DescontoValorDataFixa:
			base = base.Sub(b.ValorDesconto)
		case DescontoPercentualDataFixa:
			base = base.Sub(moeda.Percentual(b.ValorNominal, b.ValorDesconto))
		}
		if base.IsNegative() {
			base = decimal.Zero
		}
	}

	// Juros de mora
	dias := diasDeAtraso(b.DataVencimento, dataPagamento)
	if dias > 0 {
		fator := decimal.NewFromInt(int64(dias))
		switch b.TipoJuros {
		case JurosValorDia:
			base = base.Add(b.ValorJuros.Mul(fator))
		case JurosPercentualMes:
			aoDia := b.ValorNominal.Mul(b.ValorJuros).Div(moeda.Cem).Div(trinta)
			base = base.Add(aoDia.Mul(fator))
		}
	}

	// Multa
	if !dataPagamento.Before(b.InicioMulta()) {
		switch b.TipoMulta {
		case MultaValorFixo:
			base = base.Add(b.ValorMulta)
		case MultaPercentual:
			base = base.Add(moeda.Percentual(b.ValorNominal, b.ValorMulta))
		}
	}

	base = moeda.Arredondar(base)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

// diasDeAtraso conta dias corridos inteiros após o vencimento, mínimo 0.
func diasDeAtraso(vencimento, pagamento time.Time) int {
	v := time.Date(vencimento.Year(), vencimento.Month(), vencimento.Day(), 0, 0, 0, 0, time.UTC)
	p := time.Date(pagamento.Year(), pagamento.Month(), pagamento.Day(), 0, 0, 0, 0, time.UTC)
	dias := int(p.Sub(v).Hours() / 24)
	if dias < 0 {
		return 0
	}
	return dias
}

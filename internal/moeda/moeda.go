// internal/moeda/moeda.go
package moeda

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Valores monetários usam decimal com escala 2; a aritmética acontece em
// unidades inteiras internas do decimal, nunca em float64.

var (
	reMilharBR = regexp.MustCompile(`^\d{1,3}(\.\d{3})*,\d{2}$`)
	reLimpeza  = regexp.MustCompile(`[R$\s]`)

	Zero = decimal.Zero
	Cem  = decimal.NewFromInt(100)
)

// Arredondar aplica arredondamento half-up com 2 casas.
func Arredondar(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Percentual calcula valor × (pct/100), arredondado com 2 casas.
func Percentual(valor, pct decimal.Decimal) decimal.Decimal {
	return Arredondar(valor.Mul(pct).Div(Cem))
}

// ParseValor converte strings monetárias nos formatos aceitos pela
// interface administrativa: "R$ 1.234,56", "1.234,56", "1234,56", "1234.56".
func ParseValor(s string) (decimal.Decimal, error) {
	limpo := reLimpeza.ReplaceAllString(s, "")
	if reMilharBR.MatchString(limpo) {
		limpo = strings.ReplaceAll(limpo, ".", "")
		limpo = strings.ReplaceAll(limpo, ",", ".")
	} else if strings.Contains(limpo, ",") && !strings.Contains(limpo, ".") {
		limpo = strings.ReplaceAll(limpo, ",", ".")
	}
	return decimal.NewFromString(limpo)
}

// FormatarBRL formata para exibição no padrão brasileiro: "R$ 1.234,56".
func FormatarBRL(v decimal.Decimal) string {
	s := Arredondar(v).StringFixed(2)
	negativo := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	partes := strings.SplitN(s, ".", 2)
	inteiro, centavos := partes[0], partes[1]

	var b strings.Builder
	pre := len(inteiro) % 3
	if pre > 0 {
		b.WriteString(inteiro[:pre])
	}
	for i := pre; i < len(inteiro); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(inteiro[i : i+3])
	}

	prefixo := "R$ "
	if negativo {
		prefixo = "-R$ "
	}
	return prefixo + b.String() + "," + centavos
}

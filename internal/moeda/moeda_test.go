package moeda

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValor(t *testing.T) {
	tests := []struct {
		name    string
		entrada string
		want    string
		wantErr bool
	}{
		{name: "formato brasileiro com milhar", entrada: "1.234,56", want: "1234.56"},
		{name: "com prefixo R$", entrada: "R$ 1.234,56", want: "1234.56"},
		{name: "virgula decimal sem milhar", entrada: "1234,56", want: "1234.56"},
		{name: "ponto decimal", entrada: "1234.56", want: "1234.56"},
		{name: "inteiro", entrada: "500", want: "500"},
		{name: "milhar composto", entrada: "1.234.567,89", want: "1234567.89"},
		{name: "lixo", entrada: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValor(tt.entrada)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, v.Equal(decimal.RequireFromString(tt.want)),
				"esperado %s, obtido %s", tt.want, v)
		})
	}
}

func TestPercentual(t *testing.T) {
	tests := []struct {
		name  string
		valor string
		pct   string
		want  string
	}{
		{name: "dez por cento", valor: "1000.00", pct: "10", want: "100.00"},
		{name: "meio por cento", valor: "200.00", pct: "0.5", want: "1.00"},
		{name: "arredonda half-up", valor: "100.00", pct: "0.125", want: "0.13"},
		{name: "zero", valor: "100.00", pct: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentual(decimal.RequireFromString(tt.valor), decimal.RequireFromString(tt.pct))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"esperado %s, obtido %s", tt.want, got)
		})
	}
}

func TestArredondar(t *testing.T) {
	assert.Equal(t, "10.13", Arredondar(decimal.RequireFromString("10.125")).StringFixed(2))
	assert.Equal(t, "10.12", Arredondar(decimal.RequireFromString("10.124")).StringFixed(2))
}

func TestFormatarBRL(t *testing.T) {
	tests := []struct {
		valor string
		want  string
	}{
		{valor: "1234.56", want: "R$ 1.234,56"},
		{valor: "0.5", want: "R$ 0,50"},
		{valor: "1234567.89", want: "R$ 1.234.567,89"},
		{valor: "-370.00", want: "-R$ 370,00"},
		{valor: "100", want: "R$ 100,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatarBRL(decimal.RequireFromString(tt.valor)))
	}
}

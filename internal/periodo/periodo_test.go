package periodo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

func data(ano int, mes time.Month, dia int) time.Time {
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}

func TestCalcular(t *testing.T) {
	// 2025-08-20 é uma quarta-feira.
	base := data(2025, time.August, 20)

	tests := []struct {
		name       string
		tipo       TipoPeriodo
		base       time.Time
		wantInicio time.Time
		wantFim    time.Time
	}{
		{name: "diario", tipo: Diario, base: base, wantInicio: base, wantFim: base},
		{
			name: "semanal segunda a domingo",
			tipo: Semanal, base: base,
			wantInicio: data(2025, time.August, 18),
			wantFim:    data(2025, time.August, 24),
		},
		{
			name: "quinzenal primeira metade",
			tipo: Quinzenal, base: data(2025, time.August, 10),
			wantInicio: data(2025, time.August, 1),
			wantFim:    data(2025, time.August, 15),
		},
		{
			name: "quinzenal segunda metade",
			tipo: Quinzenal, base: base,
			wantInicio: data(2025, time.August, 16),
			wantFim:    data(2025, time.August, 31),
		},
		{
			name: "mensal",
			tipo: Mensal, base: data(2025, time.February, 10),
			wantInicio: data(2025, time.February, 1),
			wantFim:    data(2025, time.February, 28),
		},
		{
			name: "trimestral alinhado ao calendario",
			tipo: Trimestral, base: base,
			wantInicio: data(2025, time.July, 1),
			wantFim:    data(2025, time.September, 30),
		},
		{
			name: "semestral",
			tipo: Semestral, base: data(2025, time.March, 5),
			wantInicio: data(2025, time.January, 1),
			wantFim:    data(2025, time.June, 30),
		},
		{
			name: "anual",
			tipo: Anual, base: base,
			wantInicio: data(2025, time.January, 1),
			wantFim:    data(2025, time.December, 31),
		},
		{
			name: "bienal ancorado em ano par",
			tipo: Bienal, base: base,
			wantInicio: data(2024, time.January, 1),
			wantFim:    data(2025, time.December, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inicio, fim, err := Calcular(tt.tipo, tt.base)
			require.NoError(t, err)
			assert.True(t, inicio.Equal(tt.wantInicio), "início esperado %s, obtido %s", tt.wantInicio, inicio)
			assert.True(t, fim.Equal(tt.wantFim), "fim esperado %s, obtido %s", tt.wantFim, fim)
		})
	}
}

func TestCalcularTipoInvalido(t *testing.T) {
	_, _, err := Calcular(TipoPeriodo("SEXENAL"), data(2025, time.August, 20))
	require.Error(t, err)
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

func TestCompetenciaValida(t *testing.T) {
	assert.True(t, CompetenciaValida("2025-03"))
	assert.True(t, CompetenciaValida("2025-12"))
	assert.False(t, CompetenciaValida("2025-13"))
	assert.False(t, CompetenciaValida("2025-00"))
	assert.False(t, CompetenciaValida("25-03"))
	assert.False(t, CompetenciaValida("2025/03"))
}

func TestCompetenciaParaPeriodo(t *testing.T) {
	inicio, fim, vencimento, err := CompetenciaParaPeriodo("2025-12", 10)
	require.NoError(t, err)
	assert.True(t, inicio.Equal(data(2025, time.November, 11)))
	assert.True(t, fim.Equal(data(2025, time.December, 10)))
	assert.True(t, vencimento.Equal(data(2025, time.December, 10)))
}

func TestCompetenciaParaPeriodoDiaSaturado(t *testing.T) {
	// Vencimento dia 31 em fevereiro cai no último dia do mês.
	_, _, vencimento, err := CompetenciaParaPeriodo("2025-02", 31)
	require.NoError(t, err)
	assert.True(t, vencimento.Equal(data(2025, time.February, 28)))
}

func TestCompetenciaParaPeriodoInvalida(t *testing.T) {
	_, _, _, err := CompetenciaParaPeriodo("2025-13", 10)
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	_, _, _, err = CompetenciaParaPeriodo("2025-03", 0)
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

// internal/periodo/periodo.go
package periodo

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// TipoPeriodo identifica a regra de cálculo das datas de uma prestação.
type TipoPeriodo string

const (
	Personalizado TipoPeriodo = "PERSONALIZADO"
	Diario        TipoPeriodo = "DIARIO"
	Semanal       TipoPeriodo = "SEMANAL"
	Quinzenal     TipoPeriodo = "QUINZENAL"
	Mensal        TipoPeriodo = "MENSAL"
	Trimestral    TipoPeriodo = "TRIMESTRAL"
	Semestral     TipoPeriodo = "SEMESTRAL"
	Anual         TipoPeriodo = "ANUAL"
	Bienal        TipoPeriodo = "BIENAL"
)

var reCompetencia = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CompetenciaValida verifica o formato YYYY-MM.
func CompetenciaValida(c string) bool {
	return reCompetencia.MatchString(c)
}

// Competencia formata uma data como competência YYYY-MM.
func Competencia(t time.Time) string {
	return t.Format("2006-01")
}

func dia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ultimoDiaDoMes(ano int, mes time.Month, loc *time.Location) time.Time {
	return time.Date(ano, mes+1, 0, 0, 0, 0, 0, loc)
}

// Calcular resolve (início, fim) inclusivos para o tipo de período informado,
// ancorado na data base (default: hoje). Blocos multi-mês são alinhados ao
// calendário e terminam no último dia do bloco.
func Calcular(tipo TipoPeriodo, base time.Time) (time.Time, time.Time, error) {
	if base.IsZero() {
		base = time.Now()
	}
	base = dia(base)
	loc := base.Location()

	switch tipo {
	case Personalizado, Diario:
		return base, base, nil

	case Semanal:
		// Segunda a domingo da semana da data base.
		offset := (int(base.Weekday()) + 6) % 7
		inicio := base.AddDate(0, 0, -offset)
		return inicio, inicio.AddDate(0, 0, 6), nil

	case Quinzenal:
		if base.Day() <= 15 {
			inicio := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, loc)
			fim := time.Date(base.Year(), base.Month(), 15, 0, 0, 0, 0, loc)
			return inicio, fim, nil
		}
		inicio := time.Date(base.Year(), base.Month(), 16, 0, 0, 0, 0, loc)
		return inicio, ultimoDiaDoMes(base.Year(), base.Month(), loc), nil

	case Mensal:
		inicio := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, loc)
		return inicio, ultimoDiaDoMes(base.Year(), base.Month(), loc), nil

	case Trimestral:
		return blocoDeMeses(base, 3), ultimoDiaDoBloco(base, 3), nil

	case Semestral:
		return blocoDeMeses(base, 6), ultimoDiaDoBloco(base, 6), nil

	case Anual:
		inicio := time.Date(base.Year(), time.January, 1, 0, 0, 0, 0, loc)
		fim := time.Date(base.Year(), time.December, 31, 0, 0, 0, 0, loc)
		return inicio, fim, nil

	case Bienal:
		// Biênio alinhado a ano de início par.
		anoInicio := base.Year()
		if anoInicio%2 != 0 {
			anoInicio--
		}
		inicio := time.Date(anoInicio, time.January, 1, 0, 0, 0, 0, loc)
		fim := time.Date(anoInicio+1, time.December, 31, 0, 0, 0, 0, loc)
		return inicio, fim, nil
	}

	return time.Time{}, time.Time{}, erros.Validacao("tipo de período inválido: %q", tipo)
}

func blocoDeMeses(base time.Time, tamanho int) time.Time {
	mes := int(base.Month())
	mesInicio := ((mes-1)/tamanho)*tamanho + 1
	return time.Date(base.Year(), time.Month(mesInicio), 1, 0, 0, 0, 0, base.Location())
}

func ultimoDiaDoBloco(base time.Time, tamanho int) time.Time {
	inicio := blocoDeMeses(base, tamanho)
	return ultimoDiaDoMes(inicio.Year(), inicio.Month()+time.Month(tamanho-1), base.Location())
}

// CompetenciaParaPeriodo resolve o período de locação coberto por uma
// competência, fechado no dia de vencimento do contrato. Ex.: competência
// 2025-12 com vencimento dia 10 cobre 11/11/2025 a 10/12/2025.
func CompetenciaParaPeriodo(competencia string, diaVencimento int) (inicio, fim, vencimento time.Time, err error) {
	if !CompetenciaValida(competencia) {
		return time.Time{}, time.Time{}, time.Time{},
			erros.Validacao("competência inválida: %q (esperado YYYY-MM)", competencia)
	}
	if diaVencimento < 1 || diaVencimento > 31 {
		return time.Time{}, time.Time{}, time.Time{},
			erros.Validacao("dia de vencimento inválido: %d", diaVencimento)
	}

	var ano, mes int
	fmt.Sscanf(competencia, "%d-%d", &ano, &mes)

	vencimento = dataComDiaAjustado(ano, time.Month(mes), diaVencimento)

	mesAnterior := mes - 1
	anoAnterior := ano
	if mesAnterior < 1 {
		mesAnterior = 12
		anoAnterior--
	}
	inicio = dataComDiaAjustado(anoAnterior, time.Month(mesAnterior), diaVencimento).AddDate(0, 0, 1)
	return inicio, vencimento, vencimento, nil
}

// dataComDiaAjustado satura o dia no último dia do mês (vencimento dia 31 em
// fevereiro cai no dia 28/29).
func dataComDiaAjustado(ano int, mes time.Month, dia int) time.Time {
	ultimo := ultimoDiaDoMes(ano, mes, time.UTC).Day()
	if dia > ultimo {
		dia = ultimo
	}
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}

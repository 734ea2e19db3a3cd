package boleto

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
)

type repoBoletos struct {
	porID         map[uint]*Boleto
	porLancamento map[uint]*Boleto
	seq           uint
}

func novoRepoBoletos() *repoBoletos {
	return &repoBoletos{porID: map[uint]*Boleto{}, porLancamento: map[uint]*Boleto{}}
}

func (r *repoBoletos) Criar(b *Boleto) error {
	r.seq++
	b.ID = r.seq
	r.porID[b.ID] = b
	r.porLancamento[b.LancamentoID] = b
	return nil
}

func (r *repoBoletos) BuscarPorID(id uint) (*Boleto, error) {
	b, ok := r.porID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *repoBoletos) BuscarPorLancamento(lancamentoID uint) (*Boleto, error) {
	b, ok := r.porLancamento[lancamentoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *repoBoletos) ListarPorStatus(status string, limite int) ([]Boleto, error) {
	return nil, nil
}

func (r *repoBoletos) TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	return 0, nil
}

// lancamentosAvulsos implementa só a busca usada pela emissão de boletos.
type lancamentosAvulsos struct {
	lancamento.Repository

	porID map[uint]*lancamento.Lancamento
}

func (r *lancamentosAvulsos) BuscarPorID(id uint) (*lancamento.Lancamento, error) {
	l, ok := r.porID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func receberPendente(id uint, valor string) *lancamento.Lancamento {
	return &lancamento.Lancamento{
		ID:             id,
		Tipo:           lancamento.TipoReceber,
		Status:         lancamento.StatusPendente,
		Valor:          decimal.RequireFromString(valor),
		DataVencimento: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func servicoTeste(lancamentos ...*lancamento.Lancamento) (*Service, *repoBoletos) {
	porID := map[uint]*lancamento.Lancamento{}
	for _, l := range lancamentos {
		porID[l.ID] = l
	}
	repo := novoRepoBoletos()
	return NewService(repo, &lancamentosAvulsos{porID: porID}, zerolog.Nop()), repo
}

func TestCriarBoleto(t *testing.T) {
	s, _ := servicoTeste(receberPendente(1, "1500.00"))

	b, err := s.Criar(CriarDTO{
		LancamentoID:      1,
		ConfiguracaoAPIID: 3,
		TipoJuros:         JurosPercentualMes,
		ValorJuros:        decimal.RequireFromString("1"),
		TipoMulta:         MultaPercentual,
		ValorMulta:        decimal.RequireFromString("2"),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPendente, b.Status)
	assert.Equal(t, "1500.00", b.ValorNominal.StringFixed(2))
	assert.Len(t, b.NossoNumero, 20)
	assert.Equal(t, DescontoIsento, b.TipoDesconto)
	// Limite default: vencimento + 30 dias.
	assert.True(t, b.DataLimitePagamento.Equal(b.DataVencimento.AddDate(0, 0, 30)))
}

func TestCriarBoletoValidacoes(t *testing.T) {
	pago := receberPendente(2, "500.00")
	pago.Status = lancamento.StatusPago

	pagar := receberPendente(3, "500.00")
	pagar.Tipo = lancamento.TipoPagar

	s, _ := servicoTeste(receberPendente(1, "1500.00"), pago, pagar)

	_, err := s.Criar(CriarDTO{LancamentoID: 99})
	assert.True(t, erros.ETipo(err, erros.TipoNaoEncontrado))

	_, err = s.Criar(CriarDTO{LancamentoID: 2})
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))

	_, err = s.Criar(CriarDTO{LancamentoID: 3})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	// Política ativa sem valor positivo.
	_, err = s.Criar(CriarDTO{LancamentoID: 1, TipoJuros: JurosValorDia})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	// Desconto ativo sem data de corte.
	_, err = s.Criar(CriarDTO{
		LancamentoID:  1,
		TipoDesconto:  DescontoPercentualDataFixa,
		ValorDesconto: decimal.RequireFromString("10"),
	})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

func TestCriarBoletoDuplicado(t *testing.T) {
	s, _ := servicoTeste(receberPendente(1, "1500.00"))

	_, err := s.Criar(CriarDTO{LancamentoID: 1})
	require.NoError(t, err)

	_, err = s.Criar(CriarDTO{LancamentoID: 1})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

func TestValorDevidoServico(t *testing.T) {
	s, repo := servicoTeste(receberPendente(1, "100.00"))

	b, err := s.Criar(CriarDTO{
		LancamentoID: 1,
		TipoMulta:    MultaValorFixo,
		ValorMulta:   decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.porID[b.ID])

	devido, err := s.ValorDevido(b.ID, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "105.00", devido.StringFixed(2))

	_, err = s.ValorDevido(99, time.Time{})
	assert.True(t, erros.ETipo(err, erros.TipoNaoEncontrado))
}

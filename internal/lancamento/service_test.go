package lancamento

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/contrato"
	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// repoMemoria implementa Repository em memória com a mesma semântica de
// compare-and-set do banco. Os ganchos falharCriar e aposBuscar deixam os
// testes injetarem colisão de número e corrida com reivindicação.
type repoMemoria struct {
	mu       sync.Mutex
	seq      uint
	registro map[uint]*Lancamento

	falharCriar func(l *Lancamento) error
	aposBuscar  func(id uint)
}

func novoRepoMemoria() *repoMemoria {
	return &repoMemoria{registro: map[uint]*Lancamento{}}
}

func (r *repoMemoria) Criar(l *Lancamento) error {
	if r.falharCriar != nil {
		if err := r.falharCriar(l); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l.ID = r.seq
	copia := *l
	r.registro[l.ID] = &copia
	return nil
}

func (r *repoMemoria) BuscarPorID(id uint) (*Lancamento, error) {
	r.mu.Lock()
	l, ok := r.registro[id]
	var copia Lancamento
	if ok {
		copia = *l
	}
	r.mu.Unlock()
	if r.aposBuscar != nil {
		r.aposBuscar(id)
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &copia, nil
}

// reivindicar simula a aprovação de uma prestação carimbando o lançamento.
func (r *repoMemoria) reivindicar(id, prestacaoID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.registro[id]; ok {
		p := prestacaoID
		l.PrestacaoID = &p
	}
}

func (r *repoMemoria) Listar(f Filtros) ([]Lancamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lancamento
	for _, l := range r.registro {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *repoMemoria) ListarVencidos(tipo string, referencia time.Time) ([]Lancamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lancamento
	for _, l := range r.registro {
		if l.Status == StatusPendente && l.DataVencimento.Before(referencia) {
			if tipo == "" || l.Tipo == tipo {
				out = append(out, *l)
			}
		}
	}
	return out, nil
}

func (r *repoMemoria) ProximoNumero(tipo string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, l := range r.registro {
		if l.Tipo == tipo && l.Numero > max {
			max = l.Numero
		}
	}
	return max + 1, nil
}

func (r *repoMemoria) Atualizar(l *Lancamento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *l
	r.registro[l.ID] = &copia
	return nil
}

func (r *repoMemoria) TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.registro[id]
	if !ok || l.Status != statusEsperado {
		return 0, nil
	}
	aplicarCampos(l, campos)
	return 1, nil
}

func (r *repoMemoria) TransicionarStatusSemPrestacao(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.registro[id]
	if !ok || l.Status != statusEsperado || l.PrestacaoID != nil {
		return 0, nil
	}
	aplicarCampos(l, campos)
	return 1, nil
}

func aplicarCampos(l *Lancamento, campos map[string]any) {
	for chave, valor := range campos {
		switch chave {
		case "status":
			l.Status = valor.(string)
		case "data_pagamento":
			t := valor.(time.Time)
			l.DataPagamento = &t
		case "valor_pago":
			l.ValorPago = valor.(decimal.Decimal)
		case "forma_pagamento":
			l.FormaPagamento = valor.(string)
		case "numero_documento":
			l.NumeroDocumento = valor.(string)
		case "conta_bancaria_id":
			v := valor.(uint)
			l.ContaBancariaID = &v
		case "observacoes":
			l.Observacoes = valor.(string)
		case "motivo_estorno":
			l.MotivoEstorno = valor.(string)
		case "estornado_em":
			t := valor.(time.Time)
			l.EstornadoEm = &t
		case "motivo_cancelamento":
			l.MotivoCancelamento = valor.(string)
		case "cancelado_em":
			t := valor.(time.Time)
			l.CanceladoEm = &t
		}
	}
}

func (r *repoMemoria) Estatisticas(competenciaInicio, competenciaFim string) (*Estatisticas, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hoje := time.Now()
	e := &Estatisticas{
		ValorTotal:    decimal.Zero,
		ValorPago:     decimal.Zero,
		ValorEmAberto: decimal.Zero,
	}
	for _, l := range r.registro {
		if competenciaInicio != "" && l.Competencia < competenciaInicio {
			continue
		}
		if competenciaFim != "" && l.Competencia > competenciaFim {
			continue
		}
		e.Total++
		e.ValorTotal = e.ValorTotal.Add(l.Valor)
		switch l.Status {
		case StatusPendente:
			e.Pendentes++
			e.ValorEmAberto = e.ValorEmAberto.Add(l.Valor)
			if l.DataVencimento.Before(hoje) {
				e.EmAtraso++
			}
		case StatusPago:
			e.Pagos++
			e.ValorPago = e.ValorPago.Add(l.ValorPago)
		case StatusCancelado:
			e.Cancelados++
		case StatusEstornado:
			e.Estornados++
		}
	}
	return e, nil
}

func (r *repoMemoria) BuscarPorChaveGeracao(contratoID uint, tipoItem, competencia string) (*Lancamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.registro {
		if l.ContratoID != nil && *l.ContratoID == contratoID &&
			l.TipoItem == tipoItem && l.Competencia == competencia && l.Origem == OrigemGeracao {
			copia := *l
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *repoMemoria) ListarParaPrestacao(locadorID uint, imovelID *uint, inicio, fim time.Time, statuses []string) ([]Lancamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lancamento
	for _, l := range r.registro {
		if l.LocadorID == nil || *l.LocadorID != locadorID || l.PrestacaoID != nil {
			continue
		}
		if l.DataMovimento.Before(inicio) || l.DataMovimento.After(fim) {
			continue
		}
		for _, st := range statuses {
			if l.Status == st {
				out = append(out, *l)
				break
			}
		}
	}
	return out, nil
}

// contratosFixos implementa contrato.Repository sobre uma fatia estática.
type contratosFixos struct {
	contratos []contrato.Contrato
}

func (c *contratosFixos) BuscarPorID(id uint) (*contrato.Contrato, error) {
	for i := range c.contratos {
		if c.contratos[i].ID == id {
			return &c.contratos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (c *contratosFixos) ListarAtivos(locadorInicio, locadorFim uint) ([]contrato.Contrato, error) {
	var out []contrato.Contrato
	for _, ct := range c.contratos {
		if !ct.Ativo {
			continue
		}
		if locadorInicio > 0 && ct.LocadorID < locadorInicio {
			continue
		}
		if locadorFim > 0 && ct.LocadorID > locadorFim {
			continue
		}
		out = append(out, ct)
	}
	return out, nil
}

func (c *contratosFixos) ListarParaGeracaoAutomatica() ([]contrato.Contrato, error) {
	var out []contrato.Contrato
	for _, ct := range c.contratos {
		if ct.Ativo && ct.GerarAutomatico {
			out = append(out, ct)
		}
	}
	return out, nil
}

func novoServiceTeste(repo Repository, contratos contrato.Repository) *Service {
	return NewService(repo, contratos, zerolog.Nop())
}

func dtoValido() CriarLancamentoDTO {
	return CriarLancamentoDTO{
		Tipo:           TipoReceber,
		Valor:          decimal.RequireFromString("1500.00"),
		DataMovimento:  "2025-03-01",
		DataVencimento: "2025-03-10",
		Historico:      "Aluguel 03/2025",
	}
}

func TestCriarLancamento(t *testing.T) {
	s := novoServiceTeste(novoRepoMemoria(), &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)
	assert.Equal(t, StatusPendente, l.Status)
	assert.Equal(t, 1, l.Numero)
	assert.Equal(t, "2025-03", l.Competencia) // default: mês do vencimento
	assert.Equal(t, OrigemManual, l.Origem)
	assert.False(t, l.Valor.IsNegative())
}

func TestCriarLancamentoValidacoes(t *testing.T) {
	s := novoServiceTeste(novoRepoMemoria(), &contratosFixos{})

	tests := []struct {
		name    string
		mutacao func(*CriarLancamentoDTO)
	}{
		{name: "tipo desconhecido", mutacao: func(d *CriarLancamentoDTO) { d.Tipo = "TRANSFERIR" }},
		{name: "valor negativo", mutacao: func(d *CriarLancamentoDTO) { d.Valor = decimal.RequireFromString("-1") }},
		{name: "vencimento antes do movimento", mutacao: func(d *CriarLancamentoDTO) { d.DataVencimento = "2025-02-01" }},
		{name: "competencia mal formada", mutacao: func(d *CriarLancamentoDTO) { d.Competencia = "03/2025" }},
		{name: "data invalida", mutacao: func(d *CriarLancamentoDTO) { d.DataMovimento = "ontem" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := dtoValido()
			tt.mutacao(&dto)
			_, err := s.Criar(dto)
			assert.True(t, erros.ETipo(err, erros.TipoValidacao), "esperado erro de validação, obtido %v", err)
		})
	}
}

func TestCriarLancamentoComRetencoes(t *testing.T) {
	s := novoServiceTeste(novoRepoMemoria(), &contratosFixos{})

	dto := dtoValido()
	dto.Tipo = TipoPagar
	dto.Valor = decimal.RequireFromString("1000.00")
	dto.ReterINSS = true
	dto.PercINSS = decimal.RequireFromString("11")
	dto.ReterISS = true
	dto.PercISS = decimal.RequireFromString("5")

	l, err := s.Criar(dto)
	require.NoError(t, err)
	assert.Equal(t, "110.00", l.ValorINSS.StringFixed(2))
	assert.Equal(t, "50.00", l.ValorISS.StringFixed(2))
	assert.Equal(t, "160.00", l.RetencaoTotal().StringFixed(2))
}

func TestBaixarIdempotente(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)

	baixa := BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")}

	primeiro, err := s.Baixar(l.ID, baixa)
	require.NoError(t, err)
	assert.Equal(t, StatusPago, primeiro.Status)

	// O retry com payload idêntico é no-op de sucesso.
	segundo, err := s.Baixar(l.ID, baixa)
	require.NoError(t, err)
	assert.Equal(t, StatusPago, segundo.Status)
	assert.True(t, segundo.ValorPago.Equal(primeiro.ValorPago))

	// Payload diferente sobre lançamento já pago falha.
	outra := BaixaDTO{DataPagamento: "2025-03-11", ValorPago: decimal.RequireFromString("1500.00")}
	_, err = s.Baixar(l.ID, outra)
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))
}

func TestBaixarValidacoes(t *testing.T) {
	s := novoServiceTeste(novoRepoMemoria(), &contratosFixos{})

	_, err := s.Baixar(1, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.Zero})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	_, err = s.Baixar(99, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1")})
	assert.True(t, erros.ETipo(err, erros.TipoNaoEncontrado))
}

func TestEstornar(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)

	// Estorno antes da baixa é estado inválido.
	_, err = s.Estornar(l.ID, "pagamento duplicado")
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))

	_, err = s.Baixar(l.ID, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")})
	require.NoError(t, err)

	_, err = s.Estornar(l.ID, "")
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	estornado, err := s.Estornar(l.ID, "pagamento duplicado")
	require.NoError(t, err)
	assert.Equal(t, StatusEstornado, estornado.Status)
	assert.NotNil(t, estornado.EstornadoEm)

	// ESTORNADO é terminal.
	_, err = s.Baixar(l.ID, BaixaDTO{DataPagamento: "2025-03-12", ValorPago: decimal.RequireFromString("1500.00")})
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))
}

func TestEstornarReivindicadoPorPrestacao(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)
	_, err = s.Baixar(l.ID, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")})
	require.NoError(t, err)

	// Simula a reivindicação por uma prestação aprovada.
	pago, err := repo.BuscarPorID(l.ID)
	require.NoError(t, err)
	prestacaoID := uint(7)
	pago.PrestacaoID = &prestacaoID
	require.NoError(t, repo.Atualizar(pago))

	_, err = s.Estornar(l.ID, "valor incorreto")
	assert.True(t, erros.ETipo(err, erros.TipoPrestacaoBloqueada))
}

func TestEstornarPerdeParaAprovacaoConcorrente(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)
	_, err = s.Baixar(l.ID, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")})
	require.NoError(t, err)

	// A aprovação reivindica o lançamento entre a leitura do estorno e o
	// compare-and-set; o estorno tem de perder.
	reivindicado := false
	repo.aposBuscar = func(id uint) {
		if reivindicado {
			return
		}
		reivindicado = true
		repo.reivindicar(id, 7)
	}

	_, err = s.Estornar(l.ID, "valor incorreto")
	assert.True(t, erros.ETipo(err, erros.TipoPrestacaoBloqueada), "esperado bloqueio, obtido %v", err)

	atual, err := repo.BuscarPorID(l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPago, atual.Status, "lançamento reivindicado não pode ser estornado")
}

func TestCriarRetentaNumeroConflitante(t *testing.T) {
	repo := novoRepoMemoria()
	colisoes := 0
	repo.falharCriar = func(l *Lancamento) error {
		if colisoes == 0 {
			colisoes++
			return erros.Conflito("número %d já usado para %s", l.Numero, l.Tipo)
		}
		return nil
	}
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)
	assert.Equal(t, 1, colisoes, "primeira inserção colide e é retentada")
	assert.Equal(t, StatusPendente, l.Status)

	// Conflito persistente não entra em laço: falha na segunda tentativa.
	repo2 := novoRepoMemoria()
	repo2.falharCriar = func(l *Lancamento) error {
		return erros.Conflito("número %d já usado para %s", l.Numero, l.Tipo)
	}
	s2 := novoServiceTeste(repo2, &contratosFixos{})
	_, err = s2.Criar(dtoValido())
	assert.True(t, erros.ETipo(err, erros.TipoConflito))
}

func TestCancelar(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	l, err := s.Criar(dtoValido())
	require.NoError(t, err)

	_, err = s.Cancelar(l.ID, "")
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))

	cancelado, err := s.Cancelar(l.ID, "contrato rescindido")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelado, cancelado.Status)
	assert.Equal(t, "contrato rescindido", cancelado.MotivoCancelamento)

	// CANCELADO é terminal.
	_, err = s.Baixar(l.ID, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")})
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))
	_, err = s.Cancelar(l.ID, "de novo")
	assert.True(t, erros.ETipo(err, erros.TipoEstadoInvalido))
}

func contratosDeGeracao() *contratosFixos {
	aluguel := decimal.RequireFromString("2000.00")
	condominio := decimal.RequireFromString("450.00")

	c1 := contrato.Contrato{
		ImovelID: 10, LocadorID: 100, LocatarioID: 200,
		ValorAluguel: aluguel, DiaVencimento: 10,
		Ativo: true, GerarAutomatico: true, DiasAntecedencia: 5,
		Itens: []contrato.ItemCobranca{
			{ContratoID: 1, TipoItem: contrato.ItemAluguel, Descricao: "Aluguel", TipoValor: contrato.ValorFixo, Valor: aluguel, Ativo: true},
			{ContratoID: 1, TipoItem: contrato.ItemCondominio, Descricao: "Condomínio", TipoValor: contrato.ValorFixo, Valor: condominio, Ativo: true},
		},
	}
	c1.ID = 1

	// Sem rubricas: gera só o aluguel.
	c2 := contrato.Contrato{
		ImovelID: 11, LocadorID: 101, LocatarioID: 201,
		ValorAluguel: decimal.RequireFromString("1200.00"), DiaVencimento: 5,
		Ativo: true, GerarAutomatico: true, DiasAntecedencia: 5,
	}
	c2.ID = 2

	return &contratosFixos{contratos: []contrato.Contrato{c1, c2}}
}

func TestGerarPorCompetencia(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, contratosDeGeracao())

	dto := GeracaoDTO{Competencia: "2025-03"}

	primeira, err := s.GerarPorCompetencia(dto)
	require.NoError(t, err)
	assert.Equal(t, 2, primeira.Processados)
	assert.Equal(t, 3, primeira.Criados) // 2 rubricas do contrato 1 + aluguel do contrato 2
	assert.Equal(t, 0, primeira.Ignorados)
	assert.Equal(t, 0, primeira.Erros)

	// Segunda rodada sem reprocessamento ignora tudo.
	segunda, err := s.GerarPorCompetencia(dto)
	require.NoError(t, err)
	assert.Equal(t, 0, segunda.Criados)
	assert.Equal(t, 3, segunda.Ignorados)
}

func TestGerarPorCompetenciaReprocessar(t *testing.T) {
	repo := novoRepoMemoria()
	contratos := contratosDeGeracao()
	s := novoServiceTeste(repo, contratos)

	_, err := s.GerarPorCompetencia(GeracaoDTO{Competencia: "2025-03"})
	require.NoError(t, err)

	// Baixa o aluguel do contrato 2; pago não admite reprocessamento.
	pago, err := repo.BuscarPorChaveGeracao(2, contrato.ItemAluguel, "2025-03")
	require.NoError(t, err)
	_, err = s.Baixar(pago.ID, BaixaDTO{DataPagamento: "2025-03-05", ValorPago: pago.Valor})
	require.NoError(t, err)

	// Reajusta o aluguel do contrato 1.
	contratos.contratos[0].ValorAluguel = decimal.RequireFromString("2200.00")
	contratos.contratos[0].Itens[0].Valor = decimal.RequireFromString("2200.00")

	resultado, err := s.GerarPorCompetencia(GeracaoDTO{Competencia: "2025-03", Reprocessar: true})
	require.NoError(t, err)
	assert.Equal(t, 2, resultado.Atualizados) // rubricas do contrato 1
	assert.Equal(t, 1, resultado.Ignorados)   // aluguel pago do contrato 2
	assert.Equal(t, 0, resultado.Criados)

	atualizado, err := repo.BuscarPorChaveGeracao(1, contrato.ItemAluguel, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, "2200.00", atualizado.Valor.StringFixed(2))
}

func TestGerarPorCompetenciaFalhaParcialPreservaDetalhes(t *testing.T) {
	repo := novoRepoMemoria()
	repo.falharCriar = func(l *Lancamento) error {
		if l.TipoItem == contrato.ItemCondominio {
			return errors.New("falha simulada")
		}
		return nil
	}
	s := novoServiceTeste(repo, contratosDeGeracao())

	resultado, err := s.GerarPorCompetencia(GeracaoDTO{Competencia: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 2, resultado.Criados) // aluguel do contrato 1 + aluguel do contrato 2
	assert.Equal(t, 1, resultado.Erros)

	// Os detalhes batem com os contadores: o item criado antes da falha do
	// contrato 1 não some da lista.
	criados, falhas := 0, 0
	for _, d := range resultado.Detalhes {
		switch d.Situacao {
		case "criado":
			criados++
		case "erro":
			falhas++
		}
	}
	assert.Equal(t, resultado.Criados, criados)
	assert.Equal(t, resultado.Erros, falhas)
}

func TestEstatisticas(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, &contratosFixos{})

	a, err := s.Criar(dtoValido())
	require.NoError(t, err)
	_, err = s.Baixar(a.ID, BaixaDTO{DataPagamento: "2025-03-10", ValorPago: decimal.RequireFromString("1500.00")})
	require.NoError(t, err)

	b, err := s.Criar(dtoValido())
	require.NoError(t, err)
	_, err = s.Cancelar(b.ID, "contrato rescindido")
	require.NoError(t, err)

	_, err = s.Criar(dtoValido())
	require.NoError(t, err)

	e, err := s.Estatisticas("", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.Total)
	assert.Equal(t, int64(1), e.Pagos)
	assert.Equal(t, int64(1), e.Cancelados)
	assert.Equal(t, int64(1), e.Pendentes)
	assert.Equal(t, "4500.00", e.ValorTotal.StringFixed(2))
	assert.Equal(t, "1500.00", e.ValorPago.StringFixed(2))
	assert.Equal(t, "1500.00", e.ValorEmAberto.StringFixed(2))

	// Fora do recorte de competência nada entra.
	vazio, err := s.Estatisticas("2026-01", "2026-12")
	require.NoError(t, err)
	assert.Equal(t, int64(0), vazio.Total)

	_, err = s.Estatisticas("03/2025", "")
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

func TestGerarPorCompetenciaInvalida(t *testing.T) {
	s := novoServiceTeste(novoRepoMemoria(), contratosDeGeracao())

	_, err := s.GerarPorCompetencia(GeracaoDTO{Competencia: "2025-3"})
	assert.True(t, erros.ETipo(err, erros.TipoValidacao))
}

func TestGerarAutomaticasRespeitaAntecedencia(t *testing.T) {
	repo := novoRepoMemoria()
	s := novoServiceTeste(repo, contratosDeGeracao())

	// 2025-03-01: contrato 2 vence dia 5 (dentro da antecedência de 5 dias);
	// contrato 1 vence dia 10 e ainda não entra.
	resultado, err := s.GerarAutomaticas(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, resultado.Processados)
	assert.Equal(t, 1, resultado.Criados)

	// 2025-03-08: contrato 1 entra; o lançamento do contrato 2 já existe.
	resultado, err = s.GerarAutomaticas(time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, resultado.Processados)
	assert.Equal(t, 2, resultado.Criados) // rubricas do contrato 1
	assert.Equal(t, 1, resultado.Ignorados)
}

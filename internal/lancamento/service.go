package lancamento

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/contrato"
	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/moeda"
	"github.com/ImobFlow/api-financeiro/internal/periodo"
)

// Service concentra a regra de negócio do razão de lançamentos.
type Service struct {
	repo      Repository
	contratos contrato.Repository
	log       zerolog.Logger
}

// NewService cria o serviço de lançamentos.
func NewService(repo Repository, contratos contrato.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, contratos: contratos, log: log.With().Str("componente", "lancamentos").Logger()}
}

// Criar valida e persiste um lançamento manual em PENDENTE.
func (s *Service) Criar(dto CriarLancamentoDTO) (*Lancamento, error) {
	if dto.Tipo != TipoPagar && dto.Tipo != TipoReceber {
		return nil, erros.Validacao("tipo deve ser PAGAR ou RECEBER, recebido %q", dto.Tipo)
	}
	if dto.Valor.IsNegative() || dto.ValorDesconto.IsNegative() ||
		dto.ValorJuros.IsNegative() || dto.ValorMulta.IsNegative() {
		return nil, erros.Validacao("valores monetários não podem ser negativos")
	}

	movimento, ok := parseData(dto.DataMovimento)
	if !ok {
		return nil, erros.Validacao("data de movimento inválida: %q", dto.DataMovimento)
	}
	vencimento, ok := parseData(dto.DataVencimento)
	if !ok {
		return nil, erros.Validacao("data de vencimento inválida: %q", dto.DataVencimento)
	}
	if vencimento.Before(movimento) {
		return nil, erros.Validacao("vencimento (%s) anterior ao movimento (%s)",
			vencimento.Format("2006-01-02"), movimento.Format("2006-01-02"))
	}

	competencia := dto.Competencia
	if competencia == "" {
		competencia = periodo.Competencia(vencimento)
	}
	if !periodo.CompetenciaValida(competencia) {
		return nil, erros.Validacao("competência inválida: %q (esperado YYYY-MM)", competencia)
	}

	l := &Lancamento{
		Tipo:            dto.Tipo,
		Status:          StatusPendente,
		Valor:           moeda.Arredondar(dto.Valor),
		ValorDesconto:   moeda.Arredondar(dto.ValorDesconto),
		ValorJuros:      moeda.Arredondar(dto.ValorJuros),
		ValorMulta:      moeda.Arredondar(dto.ValorMulta),
		DataMovimento:   movimento,
		DataVencimento:  vencimento,
		Competencia:     competencia,
		PlanoContas:     dto.PlanoContas,
		Historico:       dto.Historico,
		TipoItem:        dto.TipoItem,
		PagadorID:       dto.PagadorID,
		CredorID:        dto.CredorID,
		LocadorID:       dto.LocadorID,
		ContratoID:      dto.ContratoID,
		ImovelID:        dto.ImovelID,
		ContaBancariaID: dto.ContaBancariaID,
		TipoDocumento:   dto.TipoDocumento,
		NumeroDocumento: dto.NumeroDocumento,
		FormaPagamento:  dto.FormaPagamento,
		Origem:          OrigemManual,
		Observacoes:     dto.Observacoes,
		ReterINSS:       dto.ReterINSS,
		PercINSS:        dto.PercINSS,
		ReterISS:        dto.ReterISS,
		PercISS:         dto.PercISS,
	}

	if err := s.calcularRetencoes(l); err != nil {
		return nil, err
	}

	if err := s.criarComNumero(l); err != nil {
		return nil, err
	}

	s.log.Info().Uint("id", l.ID).Str("tipo", l.Tipo).
		Str("competencia", l.Competencia).Msg("lançamento criado")
	return l, nil
}

// criarComNumero atribui o próximo sequencial do tipo e insere. Criações
// concorrentes podem colidir no número; a colisão volta como Conflito do
// índice único e é retentada uma única vez com número recalculado.
func (s *Service) criarComNumero(l *Lancamento) error {
	for tentativa := 0; ; tentativa++ {
		numero, err := s.repo.ProximoNumero(l.Tipo)
		if err != nil {
			return fmt.Errorf("gerar número sequencial: %w", err)
		}
		l.Numero = numero

		err = s.repo.Criar(l)
		if err == nil {
			return nil
		}
		if tentativa == 0 && erros.ETipo(err, erros.TipoConflito) {
			continue
		}
		return fmt.Errorf("criar lançamento: %w", err)
	}
}

// BuscarPorID carrega um lançamento.
func (s *Service) BuscarPorID(id uint) (*Lancamento, error) {
	l, err := s.repo.BuscarPorID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erros.NaoEncontrado("lançamento %d não encontrado", id)
		}
		return nil, err
	}
	return l, nil
}

// Listar aplica os filtros de listagem.
func (s *Service) Listar(f Filtros) ([]Lancamento, error) {
	return s.repo.Listar(f)
}

// ListarVencidos devolve pendentes com vencimento anterior à data informada.
func (s *Service) ListarVencidos(tipo string, referencia time.Time) ([]Lancamento, error) {
	if referencia.IsZero() {
		referencia = time.Now()
	}
	return s.repo.ListarVencidos(tipo, referencia)
}

// Baixar registra o pagamento de um lançamento PENDENTE. A operação é
// idempotente para o mesmo (id, data, valor): a repetição de um retry de
// rede devolve sucesso sem efeito colateral.
func (s *Service) Baixar(id uint, dto BaixaDTO) (*Lancamento, error) {
	if dto.ValorPago.LessThanOrEqual(decimal.Zero) {
		return nil, erros.Validacao("valor pago deve ser positivo")
	}
	dataPagamento, ok := parseData(dto.DataPagamento)
	if !ok {
		return nil, erros.Validacao("data de pagamento inválida: %q", dto.DataPagamento)
	}
	valorPago := moeda.Arredondar(dto.ValorPago)

	l, err := s.BuscarPorID(id)
	if err != nil {
		return nil, err
	}

	if baixaIdentica(l, dataPagamento, valorPago) {
		return l, nil
	}
	if l.Status != StatusPendente {
		return nil, erros.EstadoInvalido("lançamento %d está %s; baixa só é válida em PENDENTE", id, l.Status)
	}

	campos := map[string]any{
		"status":         StatusPago,
		"data_pagamento": dataPagamento,
		"valor_pago":     valorPago,
	}
	if dto.FormaPagamento != "" {
		campos["forma_pagamento"] = dto.FormaPagamento
	}
	if dto.NumeroDocumento != "" {
		campos["numero_documento"] = dto.NumeroDocumento
	}
	if dto.ContaBancariaID != nil {
		campos["conta_bancaria_id"] = *dto.ContaBancariaID
	}
	if dto.Observacoes != "" {
		campos["observacoes"] = dto.Observacoes
	}

	afetadas, err := s.repo.TransicionarStatus(id, StatusPendente, campos)
	if err != nil {
		return nil, fmt.Errorf("baixar lançamento %d: %w", id, err)
	}
	if afetadas == 0 {
		// Transição concorrente commitou primeiro; decide com estado fresco.
		atual, err := s.BuscarPorID(id)
		if err != nil {
			return nil, err
		}
		if baixaIdentica(atual, dataPagamento, valorPago) {
			return atual, nil
		}
		return nil, erros.EstadoInvalido("lançamento %d transicionou para %s durante a baixa", id, atual.Status)
	}

	s.log.Info().Uint("id", id).Str("valor", valorPago.StringFixed(2)).Msg("lançamento baixado")
	return s.BuscarPorID(id)
}

func baixaIdentica(l *Lancamento, dataPagamento time.Time, valorPago decimal.Decimal) bool {
	if l.Status != StatusPago || l.DataPagamento == nil {
		return false
	}
	mesmoDia := l.DataPagamento.Year() == dataPagamento.Year() &&
		l.DataPagamento.YearDay() == dataPagamento.YearDay()
	return mesmoDia && l.ValorPago.Equal(valorPago)
}

// Estornar reverte uma baixa. ESTORNADO é terminal: a correção exige um
// lançamento novo. Estornar item reivindicado por prestação aprovada é
// rejeitado para não invalidar relatório já emitido ao proprietário.
func (s *Service) Estornar(id uint, motivo string) (*Lancamento, error) {
	if motivo == "" {
		return nil, erros.Validacao("motivo do estorno é obrigatório")
	}

	l, err := s.BuscarPorID(id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPago {
		return nil, erros.EstadoInvalido("lançamento %d está %s; estorno só é válido em PAGO", id, l.Status)
	}
	if l.PrestacaoID != nil {
		return nil, erros.PrestacaoBloqueada(
			"lançamento %d pertence à prestação %d aprovada; cancele a prestação antes de estornar",
			id, *l.PrestacaoID)
	}

	agora := time.Now()
	afetadas, err := s.repo.TransicionarStatusSemPrestacao(id, StatusPago, map[string]any{
		"status":         StatusEstornado,
		"motivo_estorno": motivo,
		"estornado_em":   agora,
	})
	if err != nil {
		return nil, fmt.Errorf("estornar lançamento %d: %w", id, err)
	}
	if afetadas == 0 {
		atual, err := s.BuscarPorID(id)
		if err != nil {
			return nil, err
		}
		if atual.PrestacaoID != nil {
			// Aprovação concorrente reivindicou o lançamento depois da leitura.
			return nil, erros.PrestacaoBloqueada(
				"lançamento %d pertence à prestação %d aprovada; cancele a prestação antes de estornar",
				id, *atual.PrestacaoID)
		}
		return nil, erros.EstadoInvalido("lançamento %d transicionou para %s durante o estorno", id, atual.Status)
	}

	s.log.Info().Uint("id", id).Str("motivo", motivo).Msg("lançamento estornado")
	return s.BuscarPorID(id)
}

// Cancelar encerra um lançamento PENDENTE com motivo. Terminal.
func (s *Service) Cancelar(id uint, motivo string) (*Lancamento, error) {
	if motivo == "" {
		return nil, erros.Validacao("motivo do cancelamento é obrigatório")
	}

	l, err := s.BuscarPorID(id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPendente {
		return nil, erros.EstadoInvalido("lançamento %d está %s; cancelamento só é válido em PENDENTE", id, l.Status)
	}

	agora := time.Now()
	afetadas, err := s.repo.TransicionarStatus(id, StatusPendente, map[string]any{
		"status":              StatusCancelado,
		"motivo_cancelamento": motivo,
		"cancelado_em":        agora,
	})
	if err != nil {
		return nil, fmt.Errorf("cancelar lançamento %d: %w", id, err)
	}
	if afetadas == 0 {
		atual, err := s.BuscarPorID(id)
		if err != nil {
			return nil, err
		}
		return nil, erros.EstadoInvalido("lançamento %d transicionou para %s durante o cancelamento", id, atual.Status)
	}

	s.log.Info().Uint("id", id).Str("motivo", motivo).Msg("lançamento cancelado")
	return s.BuscarPorID(id)
}

// Estatisticas resume o razão por status, com recorte opcional de competência.
func (s *Service) Estatisticas(competenciaInicio, competenciaFim string) (*Estatisticas, error) {
	if competenciaInicio != "" && !periodo.CompetenciaValida(competenciaInicio) {
		return nil, erros.Validacao("competência inicial inválida: %q (esperado YYYY-MM)", competenciaInicio)
	}
	if competenciaFim != "" && !periodo.CompetenciaValida(competenciaFim) {
		return nil, erros.Validacao("competência final inválida: %q (esperado YYYY-MM)", competenciaFim)
	}
	return s.repo.Estatisticas(competenciaInicio, competenciaFim)
}

func (s *Service) calcularRetencoes(l *Lancamento) error {
	cem := decimal.NewFromInt(100)
	if l.PercINSS.IsNegative() || l.PercINSS.GreaterThan(cem) ||
		l.PercISS.IsNegative() || l.PercISS.GreaterThan(cem) {
		return erros.Validacao("percentual de retenção deve estar entre 0 e 100")
	}

	if l.ReterINSS && l.PercINSS.IsPositive() {
		l.ValorINSS = moeda.Percentual(l.Valor, l.PercINSS)
	} else {
		l.ValorINSS = decimal.Zero
	}
	if l.ReterISS && l.PercISS.IsPositive() {
		l.ValorISS = moeda.Percentual(l.Valor, l.PercISS)
	} else {
		l.ValorISS = decimal.Zero
	}
	return nil
}

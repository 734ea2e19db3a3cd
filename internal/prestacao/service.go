package prestacao

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
	"github.com/ImobFlow/api-financeiro/internal/moeda"
	"github.com/ImobFlow/api-financeiro/internal/periodo"
	"github.com/ImobFlow/api-financeiro/internal/referencia"
)

// Service implementa a prestação de contas: prévia, aprovação com
// reivindicação atômica dos lançamentos, cancelamento e registro de repasse.
type Service struct {
	repo        Repository
	lancamentos lancamento.Repository
	referencias referencia.Provider
	log         zerolog.Logger
}

// NewService monta o serviço de prestações.
func NewService(repo Repository, lancamentos lancamento.Repository, referencias referencia.Provider, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		lancamentos: lancamentos,
		referencias: referencias,
		log:         log.With().Str("componente", "prestacao").Logger(),
	}
}

func (s *Service) resolverPeriodo(dto PreviaDTO) (inicio, fim time.Time, err error) {
	tipo := periodo.TipoPeriodo(dto.TipoPeriodo)
	if tipo == periodo.Personalizado {
		if dto.DataInicio == "" || dto.DataFim == "" {
			return inicio, fim, erros.Validacao("período personalizado exige dataInicio e dataFim")
		}
		if inicio, err = parseData(dto.DataInicio, "dataInicio"); err != nil {
			return inicio, fim, err
		}
		if fim, err = parseData(dto.DataFim, "dataFim"); err != nil {
			return inicio, fim, err
		}
		if fim.Before(inicio) {
			return inicio, fim, erros.Validacao("dataFim anterior à dataInicio")
		}
		return inicio, fim, nil
	}

	base := time.Now()
	if dto.DataBase != "" {
		if base, err = parseData(dto.DataBase, "dataBase"); err != nil {
			return inicio, fim, err
		}
	}
	return periodo.Calcular(tipo, base)
}

// montarPrevia resolve o período, seleciona os lançamentos elegíveis e
// calcula o resumo. Devolve também os ids dos lançamentos pagos, que são os
// únicos reivindicados na aprovação.
func (s *Service) montarPrevia(dto PreviaDTO) (*Previa, error) {
	if dto.LocadorID == 0 {
		return nil, erros.Validacao("locadorId é obrigatório")
	}

	inicio, fim, err := s.resolverPeriodo(dto)
	if err != nil {
		return nil, err
	}

	statuses := []string{lancamento.StatusPago}
	if dto.IncluirPendentes {
		statuses = append(statuses, lancamento.StatusPendente)
	}

	selecionados, err := s.lancamentos.ListarParaPrestacao(dto.LocadorID, dto.ImovelID, inicio, fim, statuses)
	if err != nil {
		return nil, err
	}

	p := Prestacao{
		LocadorID:        dto.LocadorID,
		ImovelID:         dto.ImovelID,
		TipoPeriodo:      dto.TipoPeriodo,
		DataInicio:       inicio,
		DataFim:          fim,
		Competencia:      periodo.Competencia(inicio),
		IncluirPendentes: dto.IncluirPendentes,
		Status:           StatusGerado,
	}

	receitas := decimal.Zero
	taxaAdmin := decimal.Zero
	retencao := decimal.Zero
	despesas := decimal.Zero
	var pagos []uint

	for _, l := range selecionados {
		informativo := l.Status != lancamento.StatusPago

		valor := l.ValorPago
		if !valor.IsPositive() {
			valor = l.Valor
		}

		p.Itens = append(p.Itens, Item{
			LancamentoID:  l.ID,
			Tipo:          l.Tipo,
			TipoItem:      l.TipoItem,
			Historico:     l.Historico,
			Competencia:   l.Competencia,
			Valor:         valor,
			Retencao:      l.RetencaoTotal(),
			Informativo:   informativo,
			DataMovimento: l.DataMovimento,
		})

		if informativo {
			continue
		}
		pagos = append(pagos, l.ID)
		p.QtdItens++

		switch l.Tipo {
		case lancamento.TipoReceber:
			receitas = receitas.Add(valor)
			if l.ContratoID != nil {
				taxa, err := s.referencias.TaxaAdministracao(*l.ContratoID)
				if err != nil {
					return nil, err
				}
				taxaAdmin = taxaAdmin.Add(moeda.Percentual(valor, taxa))
			}
		case lancamento.TipoPagar:
			despesas = despesas.Add(valor)
		}
		retencao = retencao.Add(l.RetencaoTotal())
	}

	p.TotalReceitas = moeda.Arredondar(receitas)
	p.TotalTaxaAdmin = moeda.Arredondar(taxaAdmin)
	p.TotalRetencao = moeda.Arredondar(retencao)
	p.TotalDespesas = moeda.Arredondar(despesas)
	// Repasse com sinal: o locador pode ficar devendo; nunca trava em zero.
	p.ValorRepasse = p.TotalReceitas.
		Sub(p.TotalTaxaAdmin).
		Sub(p.TotalRetencao).
		Sub(p.TotalDespesas)

	return &Previa{Prestacao: p, SemItens: p.QtdItens == 0, lancamentoIDs: pagos}, nil
}

// Previa calcula a prévia sem persistir nada. Período sem lançamentos não é
// erro: o resumo volta zerado com o sinalizador SemItens.
func (s *Service) Previa(dto PreviaDTO) (*Previa, error) {
	return s.montarPrevia(dto)
}

// Aprovar recalcula a prévia e a persiste, reivindicando os lançamentos
// incluídos em uma única transação. Uma aprovação concorrente sobre período
// sobreposto perde com PRESTACAO_SOBREPOSTA e deve partir de prévia nova.
func (s *Service) Aprovar(dto PreviaDTO) (*Prestacao, error) {
	previa, err := s.montarPrevia(dto)
	if err != nil {
		return nil, err
	}
	if previa.SemItens {
		return nil, erros.Validacao("não há lançamentos pagos no período para aprovar")
	}

	p := previa.Prestacao
	p.Status = StatusAprovado
	if err := s.repo.AprovarComReivindicacao(&p, previa.lancamentoIDs); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("prestacaoId", p.ID).
		Uint("locadorId", p.LocadorID).
		Int("itens", p.QtdItens).
		Str("repasse", p.ValorRepasse.StringFixed(2)).
		Msg("prestação aprovada")
	return &p, nil
}

// Cancelar solta a reivindicação dos lançamentos. Só vale para prestações
// aprovadas sem repasse registrado.
func (s *Service) Cancelar(id uint, motivo string) (*Prestacao, error) {
	if motivo == "" {
		return nil, erros.Validacao("motivo do cancelamento é obrigatório")
	}

	p, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusAprovado {
		return nil, erros.EstadoInvalido("prestação %d está %s; só prestações aprovadas podem ser canceladas", id, p.Status)
	}
	if p.TemRepasse() {
		return nil, erros.EstadoInvalido("prestação %d já tem repasse registrado; estorne o repasse antes de cancelar", id)
	}

	agora := time.Now()
	p.Status = StatusCancelado
	p.MotivoCancelamento = motivo
	p.CanceladoEm = &agora
	if err := s.repo.CancelarComLiberacao(p); err != nil {
		return nil, err
	}

	s.log.Info().Uint("prestacaoId", p.ID).Str("motivo", motivo).Msg("prestação cancelada")
	return p, nil
}

// RegistrarRepasse lança o pagamento do repasse e fecha a prestação.
func (s *Service) RegistrarRepasse(id uint, dto RepasseDTO) (*Prestacao, error) {
	p, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusAprovado {
		return nil, erros.EstadoInvalido("prestação %d está %s; repasse exige prestação aprovada", id, p.Status)
	}
	if dto.Data == "" {
		return nil, erros.Validacao("data do repasse é obrigatória")
	}
	data, err := parseData(dto.Data, "data")
	if err != nil {
		return nil, err
	}

	p.Status = StatusPago
	p.RepasseData = &data
	p.RepasseFormaPagamento = dto.FormaPagamento
	p.RepasseContaBancariaID = dto.ContaBancariaID
	p.RepasseComprovante = dto.Comprovante
	p.RepasseObservacoes = dto.Observacoes
	if err := s.repo.Atualizar(p); err != nil {
		return nil, err
	}

	s.log.Info().Uint("prestacaoId", p.ID).Msg("repasse registrado")
	return p, nil
}

// Excluir remove uma prestação cancelada. Prestações aprovadas ou pagas
// nunca são excluídas.
func (s *Service) Excluir(id uint) error {
	p, err := s.buscar(id)
	if err != nil {
		return err
	}
	if p.Status != StatusCancelado {
		return erros.EstadoInvalido("prestação %d está %s; só prestações canceladas podem ser excluídas", id, p.Status)
	}
	return s.repo.Excluir(p)
}

// BuscarPorID carrega uma prestação com seus itens.
func (s *Service) BuscarPorID(id uint) (*Prestacao, error) {
	return s.buscar(id)
}

// Listar devolve as prestações do locador, opcionalmente por status.
func (s *Service) Listar(locadorID uint, status string) ([]Prestacao, error) {
	return s.repo.Listar(locadorID, status)
}

// Historico devolve as prestações do locador da mais recente para a mais
// antiga, com limite opcional.
func (s *Service) Historico(locadorID uint, limite int) ([]Prestacao, error) {
	if locadorID == 0 {
		return nil, erros.Validacao("locadorId é obrigatório")
	}
	return s.repo.ListarHistorico(locadorID, limite)
}

// Estatisticas resume as prestações por status, com recorte opcional de ano.
func (s *Service) Estatisticas(ano int) (*Estatisticas, error) {
	return s.repo.Estatisticas(ano)
}

func (s *Service) buscar(id uint) (*Prestacao, error) {
	p, err := s.repo.BuscarPorID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erros.NaoEncontrado("prestação %d não encontrada", id)
		}
		return nil, err
	}
	return p, nil
}

// internal/lancamento/geracao.go
package lancamento

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/contrato"
	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/periodo"
)

// GerarPorCompetencia cria os lançamentos recorrentes de cada contrato ativo
// para a competência: uma entrada RECEBER por rubrica do contrato, a menos
// que já exista para contrato+rubrica+competência. Com Reprocessar, entradas
// não terminais são atualizadas em vez de ignoradas; terminais nunca são
// reprocessadas. A falha de um contrato não aborta o lote.
func (s *Service) GerarPorCompetencia(dto GeracaoDTO) (*ResultadoGeracao, error) {
	if !periodo.CompetenciaValida(dto.Competencia) {
		return nil, erros.Validacao("competência inválida: %q (esperado YYYY-MM)", dto.Competencia)
	}

	contratos, err := s.contratos.ListarAtivos(dto.LocadorInicio, dto.LocadorFim)
	if err != nil {
		return nil, fmt.Errorf("listar contratos ativos: %w", err)
	}

	resultado := &ResultadoGeracao{Competencia: dto.Competencia, Detalhes: []DetalheGeracao{}}

	for i := range contratos {
		c := &contratos[i]
		resultado.Processados++

		// Na falha no meio do contrato, os itens já contabilizados ficam nos
		// detalhes; só o que faltou vira entrada de erro.
		detalhe, err := s.gerarParaContrato(c, dto.Competencia, dto.Reprocessar, resultado)
		resultado.Detalhes = append(resultado.Detalhes, detalhe...)
		if err != nil {
			resultado.Erros++
			resultado.Detalhes = append(resultado.Detalhes, DetalheGeracao{
				ContratoID: c.ID,
				Situacao:   "erro",
				Mensagem:   err.Error(),
			})
			s.log.Error().Err(err).Uint("contratoId", c.ID).
				Str("competencia", dto.Competencia).Msg("falha na geração do contrato")
		}
	}

	s.log.Info().Str("competencia", dto.Competencia).
		Int("processados", resultado.Processados).
		Int("criados", resultado.Criados).
		Int("atualizados", resultado.Atualizados).
		Int("ignorados", resultado.Ignorados).
		Int("erros", resultado.Erros).
		Msg("geração por competência concluída")
	return resultado, nil
}

// GerarAutomaticas roda a geração da competência corrente para os contratos
// com geração automática habilitada, respeitando a antecedência configurada:
// o lançamento só nasce quando faltam DiasAntecedencia (ou menos) para o
// vencimento. Pensada para ser disparada por um job externo diário.
func (s *Service) GerarAutomaticas(referencia time.Time) (*ResultadoGeracao, error) {
	if referencia.IsZero() {
		referencia = time.Now()
	}
	competencia := periodo.Competencia(referencia)

	contratos, err := s.contratos.ListarParaGeracaoAutomatica()
	if err != nil {
		return nil, fmt.Errorf("listar contratos para geração automática: %w", err)
	}

	resultado := &ResultadoGeracao{Competencia: competencia, Detalhes: []DetalheGeracao{}}

	for i := range contratos {
		c := &contratos[i]

		_, _, vencimento, err := periodo.CompetenciaParaPeriodo(competencia, c.DiaVencimento)
		if err != nil {
			resultado.Processados++
			resultado.Erros++
			resultado.Detalhes = append(resultado.Detalhes, DetalheGeracao{
				ContratoID: c.ID, Situacao: "erro", Mensagem: err.Error(),
			})
			continue
		}
		if referencia.Before(vencimento.AddDate(0, 0, -c.DiasAntecedencia)) {
			continue
		}

		resultado.Processados++
		detalhe, err := s.gerarParaContrato(c, competencia, false, resultado)
		resultado.Detalhes = append(resultado.Detalhes, detalhe...)
		if err != nil {
			resultado.Erros++
			resultado.Detalhes = append(resultado.Detalhes, DetalheGeracao{
				ContratoID: c.ID, Situacao: "erro", Mensagem: err.Error(),
			})
			s.log.Error().Err(err).Uint("contratoId", c.ID).
				Str("competencia", competencia).Msg("falha na geração automática do contrato")
		}
	}

	s.log.Info().Str("competencia", competencia).
		Int("processados", resultado.Processados).
		Int("criados", resultado.Criados).
		Msg("geração automática concluída")
	return resultado, nil
}

func (s *Service) gerarParaContrato(c *contrato.Contrato, competencia string, reprocessar bool, resultado *ResultadoGeracao) ([]DetalheGeracao, error) {
	_, _, vencimento, err := periodo.CompetenciaParaPeriodo(competencia, c.DiaVencimento)
	if err != nil {
		return nil, err
	}

	itens := c.ItensAtivos()
	if len(itens) == 0 {
		itens = []contrato.ItemCobranca{{
			ContratoID: c.ID,
			TipoItem:   contrato.ItemAluguel,
			Descricao:  "Aluguel",
			TipoValor:  contrato.ValorFixo,
			Valor:      c.ValorAluguel,
		}}
	}

	var detalhes []DetalheGeracao
	for _, item := range itens {
		existente, err := s.repo.BuscarPorChaveGeracao(c.ID, item.TipoItem, competencia)
		switch {
		case err == nil:
			if !reprocessar {
				resultado.Ignorados++
				detalhes = append(detalhes, DetalheGeracao{
					ContratoID: c.ID, Situacao: "ignorado",
					Mensagem: fmt.Sprintf("%s já gerado para %s", item.TipoItem, competencia),
				})
				continue
			}
			if existente.EhTerminal() || existente.Status == StatusPago {
				resultado.Ignorados++
				detalhes = append(detalhes, DetalheGeracao{
					ContratoID: c.ID, Situacao: "ignorado",
					Mensagem: fmt.Sprintf("%s em estado %s não admite reprocessamento", item.TipoItem, existente.Status),
				})
				continue
			}
			existente.Valor = item.ValorEfetivo(c.ValorAluguel)
			existente.DataVencimento = vencimento
			existente.DataMovimento = vencimento
			existente.Historico = historicoGeracao(item, competencia)
			if err := s.repo.Atualizar(existente); err != nil {
				return detalhes, fmt.Errorf("reprocessar %s: %w", item.TipoItem, err)
			}
			resultado.Atualizados++
			detalhes = append(detalhes, DetalheGeracao{ContratoID: c.ID, Situacao: "atualizado"})

		case errors.Is(err, gorm.ErrRecordNotFound):
			contratoID := c.ID
			imovelID := c.ImovelID
			locadorID := c.LocadorID
			pagadorID := c.LocatarioID

			novo := &Lancamento{
				Tipo:            TipoReceber,
				Status:          StatusPendente,
				Valor:           item.ValorEfetivo(c.ValorAluguel),
				DataMovimento:   vencimento,
				DataVencimento:  vencimento,
				Competencia:     competencia,
				Historico:       historicoGeracao(item, competencia),
				TipoItem:        item.TipoItem,
				PagadorID:       &pagadorID,
				LocadorID:       &locadorID,
				ContratoID:      &contratoID,
				ImovelID:        &imovelID,
				ContaBancariaID: c.ContaBancariaID,
				Origem:          OrigemGeracao,
			}
			if err := s.criarComNumero(novo); err != nil {
				return detalhes, fmt.Errorf("criar %s: %w", item.TipoItem, err)
			}
			resultado.Criados++
			detalhes = append(detalhes, DetalheGeracao{ContratoID: c.ID, Situacao: "criado"})

		default:
			return detalhes, fmt.Errorf("consultar duplicidade de %s: %w", item.TipoItem, err)
		}
	}
	return detalhes, nil
}

func historicoGeracao(item contrato.ItemCobranca, competencia string) string {
	descricao := item.Descricao
	if descricao == "" {
		descricao = item.TipoItem
	}
	// competência YYYY-MM exibida como MM/YYYY
	return fmt.Sprintf("%s %s/%s", descricao, competencia[5:], competencia[:4])
}

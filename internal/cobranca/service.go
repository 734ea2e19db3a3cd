package cobranca

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/boleto"
	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
	"github.com/ImobFlow/api-financeiro/internal/notificacao"
)

// ResultadoLote acumula o desfecho de um lote de despacho. O lote em si
// sempre "dá certo": falha por item fica nos detalhes, na ordem de entrada.
type ResultadoLote struct {
	Total    int           `json:"total"`
	Sucesso  int           `json:"sucesso"`
	Falha    int           `json:"falha"`
	Detalhes []DetalheItem `json:"detalhes"`
}

// DetalheItem registra o desfecho de um boleto dentro do lote.
type DetalheItem struct {
	BoletoID    uint   `json:"boletoId"`
	Sucesso     bool   `json:"sucesso"`
	Mensagem    string `json:"mensagem"`
	Transitoria bool   `json:"transitoria,omitempty"` // falha elegível a retry
}

// Service coordena o despacho de boletos em lote contra o emissor bancário.
// Os itens são independentes: a falha ou o cancelamento de um não afeta os
// irmãos, e o fan-out é limitado pelo pool de workers.
type Service struct {
	boletos     boleto.Repository
	lancamentos lancamento.Repository
	emissor     Emissor
	workers     int
	notificador *notificacao.Webhook
	log         zerolog.Logger
}

// ComNotificador habilita alertas de lote com falhas via webhook.
func (s *Service) ComNotificador(n *notificacao.Webhook) *Service {
	s.notificador = n
	return s
}

// NewService cria o coordenador de lotes.
func NewService(boletos boleto.Repository, lancamentos lancamento.Repository, emissor Emissor, workers int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = 5
	}
	return &Service{
		boletos:     boletos,
		lancamentos: lancamentos,
		emissor:     emissor,
		workers:     workers,
		log:         log.With().Str("componente", "cobranca").Logger(),
	}
}

// EnviarLote registra cada boleto do lote junto ao banco. A chamada externa
// acontece fora de transação; o desfecho confirmado é gravado com
// compare-and-set, de modo que despacho duplicado do mesmo id não aplica o
// resultado duas vezes.
func (s *Service) EnviarLote(ctx context.Context, ids []uint) (*ResultadoLote, error) {
	if len(ids) == 0 {
		return nil, erros.Validacao("lote vazio")
	}

	resultado := &ResultadoLote{Total: len(ids), Detalhes: make([]DetalheItem, len(ids))}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resultado.Detalhes[i] = s.enviarItem(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range resultado.Detalhes {
		if d.Sucesso {
			resultado.Sucesso++
		} else {
			resultado.Falha++
		}
	}

	s.log.Info().Int("total", resultado.Total).Int("sucesso", resultado.Sucesso).
		Int("falha", resultado.Falha).Msg("lote de envio concluído")
	if resultado.Falha > 0 {
		s.notificador.Enviar(ctx, "lote_envio_com_falhas",
			"lote de envio de boletos concluído com falhas", resultado)
	}
	return resultado, nil
}

func (s *Service) enviarItem(ctx context.Context, id uint) DetalheItem {
	b, err := s.boletos.BuscarPorID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetalheItem{BoletoID: id, Mensagem: "boleto não encontrado"}
		}
		return DetalheItem{BoletoID: id, Mensagem: err.Error()}
	}

	if b.Status == boleto.StatusRegistrado {
		return DetalheItem{BoletoID: id, Sucesso: true, Mensagem: "boleto já registrado"}
	}
	if !b.PodeRegistrar() {
		return DetalheItem{BoletoID: id, Mensagem: "boleto em " + b.Status + " não admite registro"}
	}

	// O lançamento dono precisa continuar em aberto: registrar instrumento de
	// lançamento cancelado criaria cobrança viva de entrada morta.
	dono, err := s.lancamentos.BuscarPorID(b.LancamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetalheItem{BoletoID: id, Mensagem: fmt.Sprintf("lançamento %d do boleto não encontrado", b.LancamentoID)}
		}
		return DetalheItem{BoletoID: id, Mensagem: err.Error()}
	}
	if dono.Status != lancamento.StatusPendente {
		if dono.EhTerminal() {
			_, _ = s.boletos.TransicionarStatus(id, b.Status, map[string]any{
				"status": boleto.StatusBaixado,
			})
		}
		return DetalheItem{BoletoID: id, Mensagem: fmt.Sprintf(
			"lançamento %d está %s; boleto não pode ser registrado", b.LancamentoID, dono.Status)}
	}

	statusOrigem := b.Status
	externoID, err := s.emissor.Registrar(ctx, b)
	if err != nil {
		// Falha do colaborador fica restrita ao item.
		_, _ = s.boletos.TransicionarStatus(id, statusOrigem, map[string]any{
			"status":        boleto.StatusErro,
			"mensagem_erro": err.Error(),
		})
		s.log.Warn().Err(err).Uint("boletoId", id).Msg("registro recusado")
		return DetalheItem{BoletoID: id, Mensagem: err.Error(), Transitoria: erros.ETransitoria(err)}
	}

	afetadas, err := s.boletos.TransicionarStatus(id, statusOrigem, map[string]any{
		"status":        boleto.StatusRegistrado,
		"externo_id":    externoID,
		"mensagem_erro": "",
	})
	if err != nil {
		return DetalheItem{BoletoID: id, Mensagem: err.Error()}
	}
	if afetadas == 0 {
		return DetalheItem{BoletoID: id, Mensagem: "boleto transicionou durante o despacho"}
	}

	return DetalheItem{BoletoID: id, Sucesso: true, Mensagem: "registrado: " + externoID}
}

// CancelarLote baixa cada boleto elegível do lote, mesmo padrão de
// acumulação de falhas independentes do envio.
func (s *Service) CancelarLote(ctx context.Context, ids []uint) (*ResultadoLote, error) {
	if len(ids) == 0 {
		return nil, erros.Validacao("lote vazio")
	}

	resultado := &ResultadoLote{Total: len(ids), Detalhes: make([]DetalheItem, len(ids))}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resultado.Detalhes[i] = s.cancelarItem(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range resultado.Detalhes {
		if d.Sucesso {
			resultado.Sucesso++
		} else {
			resultado.Falha++
		}
	}

	s.log.Info().Int("total", resultado.Total).Int("sucesso", resultado.Sucesso).
		Int("falha", resultado.Falha).Msg("lote de baixa concluído")
	if resultado.Falha > 0 {
		s.notificador.Enviar(ctx, "lote_baixa_com_falhas",
			"lote de baixa de boletos concluído com falhas", resultado)
	}
	return resultado, nil
}

// Cancelar baixa um único boleto.
func (s *Service) Cancelar(ctx context.Context, id uint) DetalheItem {
	return s.cancelarItem(ctx, id)
}

func (s *Service) cancelarItem(ctx context.Context, id uint) DetalheItem {
	b, err := s.boletos.BuscarPorID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetalheItem{BoletoID: id, Mensagem: "boleto não encontrado"}
		}
		return DetalheItem{BoletoID: id, Mensagem: err.Error()}
	}

	if b.Status == boleto.StatusBaixado {
		return DetalheItem{BoletoID: id, Sucesso: true, Mensagem: "boleto já baixado"}
	}
	if !b.PodeBaixar() {
		return DetalheItem{BoletoID: id, Mensagem: "boleto em " + b.Status + " não admite baixa"}
	}

	// Boleto já registrado precisa ser baixado junto ao banco antes do
	// desfecho local.
	if b.Status == boleto.StatusRegistrado {
		if err := s.emissor.Baixar(ctx, b.ExternoID); err != nil {
			s.log.Warn().Err(err).Uint("boletoId", id).Msg("baixa recusada")
			return DetalheItem{BoletoID: id, Mensagem: err.Error(), Transitoria: erros.ETransitoria(err)}
		}
	}

	afetadas, err := s.boletos.TransicionarStatus(id, b.Status, map[string]any{
		"status": boleto.StatusBaixado,
	})
	if err != nil {
		return DetalheItem{BoletoID: id, Mensagem: err.Error()}
	}
	if afetadas == 0 {
		return DetalheItem{BoletoID: id, Mensagem: "boleto transicionou durante a baixa"}
	}

	// O lançamento dono só é cancelado se ainda estiver PENDENTE; pago ou
	// já cancelado fica como está.
	agora := time.Now()
	_, _ = s.lancamentos.TransicionarStatus(b.LancamentoID, lancamento.StatusPendente, map[string]any{
		"status":              lancamento.StatusCancelado,
		"motivo_cancelamento": "boleto baixado junto ao banco",
		"cancelado_em":        agora,
	})

	return DetalheItem{BoletoID: id, Sucesso: true, Mensagem: "boleto baixado"}
}

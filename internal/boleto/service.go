package boleto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
	"github.com/ImobFlow/api-financeiro/internal/moeda"
)

// Service cuida da emissão de boletos para lançamentos RECEBER.
type Service struct {
	repo        Repository
	lancamentos lancamento.Repository
	log         zerolog.Logger
}

// NewService cria o serviço de boletos.
func NewService(repo Repository, lancamentos lancamento.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, lancamentos: lancamentos, log: log.With().Str("componente", "boletos").Logger()}
}

// CriarDTO é o payload de criação de boleto para um lançamento.
type CriarDTO struct {
	LancamentoID      uint `json:"lancamentoId"`
	ConfiguracaoAPIID uint `json:"configuracaoApiId"`
	DiasLimite        int  `json:"diasLimite"` // prazo extra após o vencimento

	TipoDesconto  string          `json:"tipoDesconto"`
	ValorDesconto decimal.Decimal `json:"valorDesconto"`
	DataDesconto  string          `json:"dataDesconto"` // YYYY-MM-DD

	TipoJuros  string          `json:"tipoJuros"`
	ValorJuros decimal.Decimal `json:"valorJuros"`

	TipoMulta  string          `json:"tipoMulta"`
	ValorMulta decimal.Decimal `json:"valorMulta"`
	DataMulta  string          `json:"dataMulta"` // YYYY-MM-DD, default vencimento+1

	MensagemPagador string `json:"mensagemPagador"`
}

// Criar monta e persiste o boleto em PENDENTE para um lançamento RECEBER
// pendente que ainda não tenha instrumento.
func (s *Service) Criar(dto CriarDTO) (*Boleto, error) {
	l, err := s.lancamentos.BuscarPorID(dto.LancamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erros.NaoEncontrado("lançamento %d não encontrado", dto.LancamentoID)
		}
		return nil, err
	}
	if l.Tipo != lancamento.TipoReceber {
		return nil, erros.Validacao("boleto só se aplica a lançamento RECEBER")
	}
	if l.Status != lancamento.StatusPendente {
		return nil, erros.EstadoInvalido("lançamento %d está %s; boleto exige PENDENTE", l.ID, l.Status)
	}
	if _, err := s.repo.BuscarPorLancamento(l.ID); err == nil {
		return nil, erros.Validacao("lançamento %d já possui boleto", l.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b := &Boleto{
		LancamentoID:      l.ID,
		NossoNumero:       gerarNossoNumero(),
		ValorNominal:      moeda.Arredondar(l.Valor),
		DataVencimento:    l.DataVencimento,
		TipoDesconto:      padraoIsento(dto.TipoDesconto),
		ValorDesconto:     dto.ValorDesconto,
		TipoJuros:         padraoIsento(dto.TipoJuros),
		ValorJuros:        dto.ValorJuros,
		TipoMulta:         padraoIsento(dto.TipoMulta),
		ValorMulta:        dto.ValorMulta,
		MensagemPagador:   dto.MensagemPagador,
		ConfiguracaoAPIID: dto.ConfiguracaoAPIID,
		Status:            StatusPendente,
	}

	dias := dto.DiasLimite
	if dias <= 0 {
		dias = 30
	}
	b.DataLimitePagamento = l.DataVencimento.AddDate(0, 0, dias)

	if dto.DataDesconto != "" {
		d, err := parseData(dto.DataDesconto)
		if err != nil {
			return nil, erros.Validacao("data de desconto inválida: %q", dto.DataDesconto)
		}
		b.DataDesconto = &d
	}
	if dto.DataMulta != "" {
		d, err := parseData(dto.DataMulta)
		if err != nil {
			return nil, erros.Validacao("data de multa inválida: %q", dto.DataMulta)
		}
		b.DataMulta = &d
	}

	if err := validarPoliticas(b); err != nil {
		return nil, err
	}

	if err := s.repo.Criar(b); err != nil {
		return nil, fmt.Errorf("criar boleto: %w", err)
	}

	s.log.Info().Uint("id", b.ID).Uint("lancamentoId", l.ID).
		Str("nossoNumero", b.NossoNumero).Msg("boleto criado")
	return b, nil
}

// BuscarPorID carrega um boleto.
func (s *Service) BuscarPorID(id uint) (*Boleto, error) {
	b, err := s.repo.BuscarPorID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, erros.NaoEncontrado("boleto %d não encontrado", id)
		}
		return nil, err
	}
	return b, nil
}

// ValorDevido expõe o cálculo do valor a pagar em uma data.
func (s *Service) ValorDevido(id uint, dataPagamento time.Time) (decimal.Decimal, error) {
	b, err := s.BuscarPorID(id)
	if err != nil {
		return decimal.Zero, err
	}
	if dataPagamento.IsZero() {
		dataPagamento = time.Now()
	}
	return CalcularValorDevido(b, dataPagamento), nil
}

// validarPoliticas garante o invariante: política ativa exige valor positivo
// (e, no caso do desconto, data de corte).
func validarPoliticas(b *Boleto) error {
	if b.TipoDesconto != DescontoIsento {
		if !b.ValorDesconto.IsPositive() {
			return erros.Validacao("desconto %s exige valor positivo", b.TipoDesconto)
		}
		if b.DataDesconto == nil {
			return erros.Validacao("desconto %s exige data de corte", b.TipoDesconto)
		}
	}
	if b.TipoJuros != JurosIsento && !b.ValorJuros.IsPositive() {
		return erros.Validacao("juros %s exige valor positivo", b.TipoJuros)
	}
	if b.TipoMulta != MultaIsento && !b.ValorMulta.IsPositive() {
		return erros.Validacao("multa %s exige valor positivo", b.TipoMulta)
	}
	return nil
}

func padraoIsento(tipo string) string {
	if tipo == "" {
		return "ISENTO"
	}
	return tipo
}

// gerarNossoNumero produz um identificador numérico de 20 dígitos derivado
// de UUID, estável por boleto.
func gerarNossoNumero() string {
	u := uuid.New()
	return fmt.Sprintf("%020d", binary.BigEndian.Uint64(u[:8]))
}

func parseData(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

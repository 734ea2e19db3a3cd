package lancamento

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Filtros da listagem de lançamentos.
type Filtros struct {
	Tipo        string
	Status      string
	Competencia string
	ContratoID  uint
	LocadorID   uint
	ImovelID    uint
}

// Repository encapsula o acesso a dados de lançamentos. As transições de
// estado usam compare-and-set sobre o status corrente: quem commita primeiro
// vence; o perdedor enxerga zero linhas afetadas.
type Repository interface {
	Criar(l *Lancamento) error
	BuscarPorID(id uint) (*Lancamento, error)
	Listar(f Filtros) ([]Lancamento, error)
	ListarVencidos(tipo string, referencia time.Time) ([]Lancamento, error)
	ProximoNumero(tipo string) (int, error)
	Atualizar(l *Lancamento) error
	Estatisticas(competenciaInicio, competenciaFim string) (*Estatisticas, error)

	// TransicionarStatus aplica os campos somente se o status corrente for o
	// esperado; devolve o número de linhas afetadas.
	TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error)

	// TransicionarStatusSemPrestacao é o mesmo compare-and-set exigindo também
	// que o lançamento não esteja reivindicado por prestação aprovada. Fecha a
	// janela entre a leitura do estorno e uma aprovação concorrente.
	TransicionarStatusSemPrestacao(id uint, statusEsperado string, campos map[string]any) (int64, error)

	// BuscarPorChaveGeracao localiza o lançamento gerado para
	// contrato+rubrica+competência (deduplicação da geração automática).
	BuscarPorChaveGeracao(contratoID uint, tipoItem, competencia string) (*Lancamento, error)

	// ListarParaPrestacao busca lançamentos do locador no período, ainda não
	// reivindicados por outra prestação aprovada.
	ListarParaPrestacao(locadorID uint, imovelID *uint, inicio, fim time.Time, statuses []string) ([]Lancamento, error)
}

type repositoryImpl struct {
	DB *gorm.DB
}

// NewRepository instancia o repositório GORM de lançamentos.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) Criar(l *Lancamento) error {
	if err := r.DB.Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return erros.Conflito("número %d já usado para %s", l.Numero, l.Tipo)
		}
		return err
	}
	return nil
}

func (r *repositoryImpl) BuscarPorID(id uint) (*Lancamento, error) {
	var l Lancamento
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) Listar(f Filtros) ([]Lancamento, error) {
	q := r.DB.Model(&Lancamento{})
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Competencia != "" {
		q = q.Where("competencia = ?", f.Competencia)
	}
	if f.ContratoID > 0 {
		q = q.Where("contrato_id = ?", f.ContratoID)
	}
	if f.LocadorID > 0 {
		q = q.Where("locador_id = ?", f.LocadorID)
	}
	if f.ImovelID > 0 {
		q = q.Where("imovel_id = ?", f.ImovelID)
	}

	var lancamentos []Lancamento
	err := q.Order("data_vencimento ASC, id ASC").Find(&lancamentos).Error
	return lancamentos, err
}

func (r *repositoryImpl) ListarVencidos(tipo string, referencia time.Time) ([]Lancamento, error) {
	q := r.DB.Where("status = ? AND data_vencimento < ?", StatusPendente, referencia)
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}

	var lancamentos []Lancamento
	err := q.Order("data_vencimento ASC").Find(&lancamentos).Error
	return lancamentos, err
}

func (r *repositoryImpl) ProximoNumero(tipo string) (int, error) {
	var max int
	err := r.DB.Model(&Lancamento{}).
		Where("tipo = ?", tipo).
		Select("COALESCE(MAX(numero), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (r *repositoryImpl) Atualizar(l *Lancamento) error {
	return r.DB.Save(l).Error
}

func (r *repositoryImpl) TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	res := r.DB.Model(&Lancamento{}).
		Where("id = ? AND status = ?", id, statusEsperado).
		Updates(campos)
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) TransicionarStatusSemPrestacao(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	res := r.DB.Model(&Lancamento{}).
		Where("id = ? AND status = ? AND prestacao_id IS NULL", id, statusEsperado).
		Updates(campos)
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) Estatisticas(competenciaInicio, competenciaFim string) (*Estatisticas, error) {
	q := r.DB.Model(&Lancamento{})
	if competenciaInicio != "" {
		q = q.Where("competencia >= ?", competenciaInicio)
	}
	if competenciaFim != "" {
		q = q.Where("competencia <= ?", competenciaFim)
	}

	var e Estatisticas
	err := q.Select(`
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'PENDENTE') AS pendentes,
		COUNT(*) FILTER (WHERE status = 'PAGO') AS pagos,
		COUNT(*) FILTER (WHERE status = 'CANCELADO') AS cancelados,
		COUNT(*) FILTER (WHERE status = 'ESTORNADO') AS estornados,
		COUNT(*) FILTER (WHERE status = 'PENDENTE' AND data_vencimento < CURRENT_DATE) AS em_atraso,
		COALESCE(SUM(valor), 0) AS valor_total,
		COALESCE(SUM(valor_pago) FILTER (WHERE status = 'PAGO'), 0) AS valor_pago,
		COALESCE(SUM(valor) FILTER (WHERE status = 'PENDENTE'), 0) AS valor_em_aberto`).
		Scan(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repositoryImpl) BuscarPorChaveGeracao(contratoID uint, tipoItem, competencia string) (*Lancamento, error) {
	var l Lancamento
	err := r.DB.
		Where("contrato_id = ? AND tipo_item = ? AND competencia = ? AND origem = ?",
			contratoID, tipoItem, competencia, OrigemGeracao).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) ListarParaPrestacao(locadorID uint, imovelID *uint, inicio, fim time.Time, statuses []string) ([]Lancamento, error) {
	q := r.DB.
		Where("locador_id = ?", locadorID).
		Where("data_movimento >= ? AND data_movimento <= ?", inicio, fim).
		Where("status IN ?", statuses).
		Where("prestacao_id IS NULL")
	if imovelID != nil {
		q = q.Where("imovel_id = ?", *imovelID)
	}

	var lancamentos []Lancamento
	err := q.Order("data_movimento ASC, id ASC").Find(&lancamentos).Error
	return lancamentos, err
}

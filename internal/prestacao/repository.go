package prestacao

import (
	"gorm.io/gorm"

	"github.com/ImobFlow/api-financeiro/internal/erros"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
)

// Repository encapsula o acesso a dados das prestações. A aprovação
// reivindica os lançamentos dentro de uma única transação; duas aprovações
// concorrentes sobre períodos sobrepostos não podem reivindicar o mesmo
// lançamento duas vezes.
type Repository interface {
	BuscarPorID(id uint) (*Prestacao, error)
	Listar(locadorID uint, status string) ([]Prestacao, error)
	ListarHistorico(locadorID uint, limite int) ([]Prestacao, error)
	Atualizar(p *Prestacao) error
	Excluir(p *Prestacao) error
	Estatisticas(ano int) (*Estatisticas, error)

	// AprovarComReivindicacao persiste a prestação e carimba cada lançamento
	// incluído com o id dela, tudo ou nada. Se algum lançamento já foi
	// reivindicado por outra prestação aprovada, devolve PRESTACAO_SOBREPOSTA
	// e nada é gravado.
	AprovarComReivindicacao(p *Prestacao, lancamentoIDs []uint) error

	// CancelarComLiberacao grava o cancelamento e solta os lançamentos
	// reivindicados na mesma transação; prestação cancelada nunca fica
	// segurando reivindicação.
	CancelarComLiberacao(p *Prestacao) error
}

type repositoryImpl struct {
	DB *gorm.DB
}

// NewRepository instancia o repositório GORM de prestações.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) BuscarPorID(id uint) (*Prestacao, error) {
	var p Prestacao
	if err := r.DB.Preload("Itens").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Listar(locadorID uint, status string) ([]Prestacao, error) {
	q := r.DB.Model(&Prestacao{})
	if locadorID > 0 {
		q = q.Where("locador_id = ?", locadorID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var prestacoes []Prestacao
	err := q.Order("data_inicio DESC, id DESC").Find(&prestacoes).Error
	return prestacoes, err
}

func (r *repositoryImpl) ListarHistorico(locadorID uint, limite int) ([]Prestacao, error) {
	q := r.DB.
		Where("locador_id = ?", locadorID).
		Order("data_inicio DESC, id DESC")
	if limite > 0 {
		q = q.Limit(limite)
	}

	var prestacoes []Prestacao
	err := q.Find(&prestacoes).Error
	return prestacoes, err
}

func (r *repositoryImpl) Estatisticas(ano int) (*Estatisticas, error) {
	q := r.DB.Model(&Prestacao{})
	if ano > 0 {
		q = q.Where("EXTRACT(YEAR FROM data_inicio) = ?", ano)
	}

	var e Estatisticas
	err := q.Select(`
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'GERADO') AS geradas,
		COUNT(*) FILTER (WHERE status = 'APROVADO') AS aguardando_repasse,
		COUNT(*) FILTER (WHERE status = 'PAGO') AS pagas,
		COUNT(*) FILTER (WHERE status = 'CANCELADO') AS canceladas,
		COALESCE(SUM(valor_repasse), 0) AS valor_total_repasse`).
		Scan(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repositoryImpl) Atualizar(p *Prestacao) error {
	return r.DB.Save(p).Error
}

func (r *repositoryImpl) Excluir(p *Prestacao) error {
	return r.DB.Delete(p).Error
}

func (r *repositoryImpl) AprovarComReivindicacao(p *Prestacao, lancamentoIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		for _, id := range lancamentoIDs {
			res := tx.Model(&lancamento.Lancamento{}).
				Where("id = ? AND prestacao_id IS NULL AND status = ?", id, lancamento.StatusPago).
				Update("prestacao_id", p.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Reivindicado por outra aprovação, ou mudou de estado
				// desde a prévia. Rollback total; o chamador gera uma
				// prévia nova e tenta de novo.
				return erros.PrestacaoSobreposta(
					"lançamento %d já reivindicado por outra prestação aprovada", id)
			}
		}
		return nil
	})
}

func (r *repositoryImpl) CancelarComLiberacao(p *Prestacao) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		return tx.Model(&lancamento.Lancamento{}).
			Where("prestacao_id = ?", p.ID).
			Update("prestacao_id", nil).Error
	})
}

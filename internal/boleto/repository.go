package boleto

import "gorm.io/gorm"

// Repository encapsula o acesso a dados de boletos. Transições de status
// usam compare-and-set para que despacho duplicado do mesmo id não aplique
// o mesmo desfecho duas vezes.
type Repository interface {
	Criar(b *Boleto) error
	BuscarPorID(id uint) (*Boleto, error)
	BuscarPorLancamento(lancamentoID uint) (*Boleto, error)
	ListarPorStatus(status string, limite int) ([]Boleto, error)
	TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error)
}

type repositoryImpl struct {
	DB *gorm.DB
}

// NewRepository instancia o repositório GORM de boletos.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) Criar(b *Boleto) error {
	return r.DB.Create(b).Error
}

func (r *repositoryImpl) BuscarPorID(id uint) (*Boleto, error) {
	var b Boleto
	if err := r.DB.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) BuscarPorLancamento(lancamentoID uint) (*Boleto, error) {
	var b Boleto
	if err := r.DB.Where("lancamento_id = ?", lancamentoID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) ListarPorStatus(status string, limite int) ([]Boleto, error) {
	q := r.DB.Where("status = ?", status).Order("data_vencimento ASC")
	if limite > 0 {
		q = q.Limit(limite)
	}

	var boletos []Boleto
	err := q.Find(&boletos).Error
	return boletos, err
}

func (r *repositoryImpl) TransicionarStatus(id uint, statusEsperado string, campos map[string]any) (int64, error) {
	res := r.DB.Model(&Boleto{}).
		Where("id = ? AND status = ?", id, statusEsperado).
		Updates(campos)
	return res.RowsAffected, res.Error
}

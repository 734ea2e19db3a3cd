package contrato

import "gorm.io/gorm"

// Repository encapsula o acesso a dados de contratos de locação.
type Repository interface {
	BuscarPorID(id uint) (*Contrato, error)
	ListarAtivos(locadorInicio, locadorFim uint) ([]Contrato, error)
	ListarParaGeracaoAutomatica() ([]Contrato, error)
}

type repositoryImpl struct {
	DB *gorm.DB
}

// NewRepository instancia o repositório GORM de contratos.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{DB: db}
}

func (r *repositoryImpl) BuscarPorID(id uint) (*Contrato, error) {
	var c Contrato
	if err := r.DB.Preload("Itens").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListarAtivos devolve contratos ativos, opcionalmente limitados a uma faixa
// de locadores (zero = sem limite daquele lado).
func (r *repositoryImpl) ListarAtivos(locadorInicio, locadorFim uint) ([]Contrato, error) {
	q := r.DB.Preload("Itens").Where("ativo = ?", true)
	if locadorInicio > 0 {
		q = q.Where("locador_id >= ?", locadorInicio)
	}
	if locadorFim > 0 {
		q = q.Where("locador_id <= ?", locadorFim)
	}

	var contratos []Contrato
	err := q.Order("id ASC").Find(&contratos).Error
	return contratos, err
}

func (r *repositoryImpl) ListarParaGeracaoAutomatica() ([]Contrato, error) {
	var contratos []Contrato
	err := r.DB.Preload("Itens").
		Where("ativo = ? AND gerar_automatico = ?", true, true).
		Order("id ASC").
		Find(&contratos).Error
	return contratos, err
}

// internal/referencia/provider.go
package referencia

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/ImobFlow/api-financeiro/internal/contrato"
	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Provider fornece dados de referência somente-leitura que o motor precisa
// para exibição e cálculo (taxa de administração do contrato, sobretudo).
type Provider interface {
	TaxaAdministracao(contratoID uint) (decimal.Decimal, error)
	DiaVencimento(contratoID uint) (int, error)
}

// ProviderCacheado resolve dados de referência no repositório de contratos
// com cache em memória; a taxa de administração é consultada por item em
// cada preview de prestação.
type ProviderCacheado struct {
	contratos contrato.Repository
	cache     *gocache.Cache
}

// NewProvider cria o provider com TTL dado e limpeza no dobro do TTL.
func NewProvider(contratos contrato.Repository, ttl time.Duration) *ProviderCacheado {
	return &ProviderCacheado{
		contratos: contratos,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

func (p *ProviderCacheado) buscar(contratoID uint) (*contrato.Contrato, error) {
	chave := fmt.Sprintf("contrato:%d", contratoID)
	if v, ok := p.cache.Get(chave); ok {
		return v.(*contrato.Contrato), nil
	}

	c, err := p.contratos.BuscarPorID(contratoID)
	if err != nil {
		return nil, erros.NaoEncontrado("contrato %d não encontrado", contratoID)
	}
	p.cache.Set(chave, c, gocache.DefaultExpiration)
	return c, nil
}

func (p *ProviderCacheado) TaxaAdministracao(contratoID uint) (decimal.Decimal, error) {
	c, err := p.buscar(contratoID)
	if err != nil {
		return decimal.Zero, err
	}
	return c.TaxaAdministracao, nil
}

func (p *ProviderCacheado) DiaVencimento(contratoID uint) (int, error) {
	c, err := p.buscar(contratoID)
	if err != nil {
		return 0, err
	}
	return c.DiaVencimento, nil
}

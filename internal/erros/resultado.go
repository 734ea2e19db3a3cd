// internal/erros/resultado.go
package erros

// Resultado é o envelope devolvido pelas operações expostas do motor:
// {sucesso, mensagem, dados}. Falhas nunca atravessam a fronteira como
// pânico; viram Resultado com Sucesso=false.
type Resultado struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
	Dados    any    `json:"dados,omitempty"`
}

// OK monta um resultado de sucesso.
func OK(mensagem string, dados any) Resultado {
	return Resultado{Sucesso: true, Mensagem: mensagem, Dados: dados}
}

// Falha monta um resultado de falha a partir de um erro do motor.
func Falha(err error) Resultado {
	return Resultado{Sucesso: false, Mensagem: err.Error()}
}

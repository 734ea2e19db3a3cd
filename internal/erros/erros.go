// internal/erros/erros.go
package erros

import (
	"errors"
	"fmt"
)

// Tipo classifica as falhas do motor financeiro. Nenhuma operação do motor
// lança pânico através da fronteira: toda falha vira um *Erro tipado.
type Tipo string

const (
	TipoValidacao           Tipo = "VALIDACAO"
	TipoEstadoInvalido      Tipo = "ESTADO_INVALIDO"
	TipoNaoEncontrado       Tipo = "NAO_ENCONTRADO"
	TipoPrestacaoSobreposta Tipo = "PRESTACAO_SOBREPOSTA"
	TipoPrestacaoBloqueada  Tipo = "PRESTACAO_BLOQUEADA"
	TipoFalhaExterna        Tipo = "FALHA_EXTERNA"
	TipoConflito            Tipo = "CONFLITO"
)

// Erro é o valor de erro padrão do motor.
type Erro struct {
	Tipo     Tipo
	Mensagem string
	// Transitoria só faz sentido para FalhaExterna: indica que o chamador
	// pode reter a operação com os mesmos dados.
	Transitoria bool
	Causa       error
}

func (e *Erro) Error() string {
	if e.Causa != nil {
		return fmt.Sprintf("%s: %s: %v", e.Tipo, e.Mensagem, e.Causa)
	}
	return fmt.Sprintf("%s: %s", e.Tipo, e.Mensagem)
}

func (e *Erro) Unwrap() error { return e.Causa }

func Validacao(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoValidacao, Mensagem: fmt.Sprintf(formato, args...)}
}

func EstadoInvalido(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoEstadoInvalido, Mensagem: fmt.Sprintf(formato, args...)}
}

func NaoEncontrado(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoNaoEncontrado, Mensagem: fmt.Sprintf(formato, args...)}
}

func PrestacaoSobreposta(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoPrestacaoSobreposta, Mensagem: fmt.Sprintf(formato, args...)}
}

func PrestacaoBloqueada(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoPrestacaoBloqueada, Mensagem: fmt.Sprintf(formato, args...)}
}

// FalhaExterna embrulha um erro de colaborador externo (API bancária).
func FalhaExterna(causa error, transitoria bool, formato string, args ...any) *Erro {
	return &Erro{
		Tipo:        TipoFalhaExterna,
		Mensagem:    fmt.Sprintf(formato, args...),
		Transitoria: transitoria,
		Causa:       causa,
	}
}

func Conflito(formato string, args ...any) *Erro {
	return &Erro{Tipo: TipoConflito, Mensagem: fmt.Sprintf(formato, args...)}
}

// TipoDe devolve o tipo do erro, ou string vazia se não for um *Erro do motor.
func TipoDe(err error) Tipo {
	var e *Erro
	if errors.As(err, &e) {
		return e.Tipo
	}
	return ""
}

// ETipo verifica se err é um *Erro do motor com o tipo informado.
func ETipo(err error, tipo Tipo) bool {
	return TipoDe(err) == tipo
}

// ETransitoria informa se uma falha externa é passível de retry pelo chamador.
func ETransitoria(err error) bool {
	var e *Erro
	if errors.As(err, &e) {
		return e.Tipo == TipoFalhaExterna && e.Transitoria
	}
	return false
}

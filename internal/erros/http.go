// internal/erros/http.go
package erros

import "net/http"

// StatusHTTP mapeia o tipo do erro para o código de resposta dos handlers.
func StatusHTTP(err error) int {
	switch TipoDe(err) {
	case TipoValidacao:
		return http.StatusBadRequest
	case TipoNaoEncontrado:
		return http.StatusNotFound
	case TipoEstadoInvalido, TipoPrestacaoBloqueada:
		return http.StatusUnprocessableEntity
	case TipoPrestacaoSobreposta, TipoConflito:
		return http.StatusConflict
	case TipoFalhaExterna:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

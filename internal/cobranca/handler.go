package cobranca

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Handler expõe as rotas de despacho de cobrança.
type Handler struct {
	Service *Service
}

// NewHandler cria o handler de cobrança.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func responder(w http.ResponseWriter, status int, resultado erros.Resultado) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resultado)
}

func responderErro(w http.ResponseWriter, err error) {
	responder(w, erros.StatusHTTP(err), erros.Falha(err))
}

// LoteDTO carrega os ids do lote.
type LoteDTO struct {
	BoletoIDs []uint `json:"boletoIds"`
}

// POST /cobrancas/envio
func (h *Handler) EnviarLote(w http.ResponseWriter, r *http.Request) {
	var dto LoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	resultado, err := h.Service.EnviarLote(r.Context(), dto.BoletoIDs)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("lote processado", resultado))
}

// POST /cobrancas/baixa
func (h *Handler) CancelarLote(w http.ResponseWriter, r *http.Request) {
	var dto LoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	resultado, err := h.Service.CancelarLote(r.Context(), dto.BoletoIDs)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("lote processado", resultado))
}

// POST /cobrancas/{id}/baixa
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	detalhe := h.Service.Cancelar(r.Context(), uint(id))
	status := http.StatusOK
	if !detalhe.Sucesso {
		status = http.StatusUnprocessableEntity
	}
	responder(w, status, erros.Resultado{Sucesso: detalhe.Sucesso, Mensagem: detalhe.Mensagem, Dados: detalhe})
}

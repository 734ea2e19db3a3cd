package prestacao

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Handler expõe as rotas de prestação de contas.
type Handler struct {
	Service *Service
}

// NewHandler cria o handler de prestações.
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

func idDaRota(r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// POST /prestacoes/previa
func (h *Handler) Previa(w http.ResponseWriter, r *http.Request) {
	var dto PreviaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	previa, err := h.Service.Previa(dto)
	if err != nil {
		responderErro(w, err)
		return
	}

	mensagem := "prévia calculada"
	if previa.SemItens {
		mensagem = "prévia calculada sem lançamentos no período"
	}
	responder(w, http.StatusOK, erros.OK(mensagem, previa))
}

// POST /prestacoes
func (h *Handler) Aprovar(w http.ResponseWriter, r *http.Request) {
	var dto PreviaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	p, err := h.Service.Aprovar(dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusCreated, erros.OK("prestação aprovada", p))
}

// GET /prestacoes
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var locadorID uint
	if v, err := strconv.Atoi(q.Get("locadorId")); err == nil {
		locadorID = uint(v)
	}

	prestacoes, err := h.Service.Listar(locadorID, q.Get("status"))
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", prestacoes))
}

// GET /prestacoes/historico
func (h *Handler) Historico(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var locadorID uint
	if v, err := strconv.Atoi(q.Get("locadorId")); err == nil {
		locadorID = uint(v)
	}
	limite, _ := strconv.Atoi(q.Get("limite"))

	prestacoes, err := h.Service.Historico(locadorID, limite)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", prestacoes))
}

// GET /prestacoes/estatisticas
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	ano, _ := strconv.Atoi(r.URL.Query().Get("ano"))

	e, err := h.Service.Estatisticas(ano)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", e))
}

// GET /prestacoes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	p, err := h.Service.BuscarPorID(id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", p))
}

// POST /prestacoes/{id}/cancelamento
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	var dto MotivoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	p, err := h.Service.Cancelar(id, dto.Motivo)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("prestação cancelada", p))
}

// POST /prestacoes/{id}/repasse
func (h *Handler) RegistrarRepasse(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	var dto RepasseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	p, err := h.Service.RegistrarRepasse(id, dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("repasse registrado", p))
}

// DELETE /prestacoes/{id}
func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	if err := h.Service.Excluir(id); err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("prestação excluída", nil))
}

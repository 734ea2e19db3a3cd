package lancamento

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Handler expõe as rotas de lançamentos.
type Handler struct {
	Service *Service
}

// NewHandler cria o handler de lançamentos.
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

// POST /lancamentos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto CriarLancamentoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	l, err := h.Service.Criar(dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusCreated, erros.OK("lançamento criado", l))
}

// GET /lancamentos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filtros{
		Tipo:        q.Get("tipo"),
		Status:      q.Get("status"),
		Competencia: q.Get("competencia"),
	}
	if v, err := strconv.Atoi(q.Get("contratoId")); err == nil {
		f.ContratoID = uint(v)
	}
	if v, err := strconv.Atoi(q.Get("locadorId")); err == nil {
		f.LocadorID = uint(v)
	}
	if v, err := strconv.Atoi(q.Get("imovelId")); err == nil {
		f.ImovelID = uint(v)
	}

	lancamentos, err := h.Service.Listar(f)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", lancamentos))
}

// POST /lancamentos/geracao-automatica
func (h *Handler) GerarAutomaticas(w http.ResponseWriter, r *http.Request) {
	referencia := time.Now()
	if v := r.URL.Query().Get("referencia"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			responderErro(w, erros.Validacao("referencia inválida: use o formato YYYY-MM-DD"))
			return
		}
		referencia = t
	}

	resultado, err := h.Service.GerarAutomaticas(referencia)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("geração automática concluída", resultado))
}

// GET /lancamentos/vencidos
func (h *Handler) ListarVencidos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	referencia := time.Now()
	if v := q.Get("referencia"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			responderErro(w, erros.Validacao("referencia inválida: use o formato YYYY-MM-DD"))
			return
		}
		referencia = t
	}

	lancamentos, err := h.Service.ListarVencidos(q.Get("tipo"), referencia)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", lancamentos))
}

// GET /lancamentos/estatisticas
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	e, err := h.Service.Estatisticas(q.Get("competenciaInicio"), q.Get("competenciaFim"))
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", e))
}

// GET /lancamentos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	l, err := h.Service.BuscarPorID(id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", l))
}

// POST /lancamentos/{id}/baixa
func (h *Handler) Baixar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDaRota(r)
	if !ok {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	var dto BaixaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	l, err := h.Service.Baixar(id, dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("lançamento baixado", l))
}

// POST /lancamentos/{id}/estorno
func (h *Handler) Estornar(w http.ResponseWriter, r *http.Request) {
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

	l, err := h.Service.Estornar(id, dto.Motivo)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("lançamento estornado", l))
}

// POST /lancamentos/{id}/cancelamento
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

	l, err := h.Service.Cancelar(id, dto.Motivo)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("lançamento cancelado", l))
}

// POST /lancamentos/geracao
func (h *Handler) GerarPorCompetencia(w http.ResponseWriter, r *http.Request) {
	var dto GeracaoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	resultado, err := h.Service.GerarPorCompetencia(dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("geração concluída", resultado))
}

package boleto

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ImobFlow/api-financeiro/internal/erros"
)

// Handler expõe as rotas de boletos.
type Handler struct {
	Service *Service
}

// NewHandler cria o handler de boletos.
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

// POST /boletos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto CriarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		responderErro(w, erros.Validacao("JSON mal formado"))
		return
	}

	b, err := h.Service.Criar(dto)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusCreated, erros.OK("boleto criado", b))
}

// GET /boletos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	b, err := h.Service.BuscarPorID(uint(id))
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", b))
}

// GET /boletos/{id}/valor-devido?data=YYYY-MM-DD
func (h *Handler) ValorDevido(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		responderErro(w, erros.Validacao("id inválido"))
		return
	}

	var data time.Time
	if s := r.URL.Query().Get("data"); s != "" {
		data, err = time.Parse("2006-01-02", s)
		if err != nil {
			responderErro(w, erros.Validacao("data inválida: %q", s))
			return
		}
	}

	valor, err := h.Service.ValorDevido(uint(id), data)
	if err != nil {
		responderErro(w, err)
		return
	}
	responder(w, http.StatusOK, erros.OK("", map[string]string{"valorDevido": valor.StringFixed(2)}))
}

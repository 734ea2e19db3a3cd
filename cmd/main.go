package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ImobFlow/api-financeiro/internal/boleto"
	"github.com/ImobFlow/api-financeiro/internal/cobranca"
	"github.com/ImobFlow/api-financeiro/internal/config"
	"github.com/ImobFlow/api-financeiro/internal/contrato"
	"github.com/ImobFlow/api-financeiro/internal/lancamento"
	"github.com/ImobFlow/api-financeiro/internal/logger"
	"github.com/ImobFlow/api-financeiro/internal/notificacao"
	"github.com/ImobFlow/api-financeiro/internal/prestacao"
	"github.com/ImobFlow/api-financeiro/internal/referencia"
	"github.com/ImobFlow/api-financeiro/internal/utils/db"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	conexao, err := db.GetDB()
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	if err := contrato.Migrate(conexao); err != nil {
		log.Fatal().Err(err).Msg("erro no migrate de contratos")
	}
	if err := lancamento.Migrate(conexao); err != nil {
		log.Fatal().Err(err).Msg("erro no migrate de lançamentos")
	}
	if err := boleto.Migrate(conexao); err != nil {
		log.Fatal().Err(err).Msg("erro no migrate de boletos")
	}
	if err := prestacao.Migrate(conexao); err != nil {
		log.Fatal().Err(err).Msg("erro no migrate de prestações")
	}

	// Repositórios
	contratoRepo := contrato.NewRepository(conexao)
	lancamentoRepo := lancamento.NewRepository(conexao)
	boletoRepo := boleto.NewRepository(conexao)
	prestacaoRepo := prestacao.NewRepository(conexao)

	referencias := referencia.NewProvider(contratoRepo, time.Duration(cfg.CacheTTLSeg)*time.Second)
	emissor := cobranca.NewEmissorHTTP(cfg.EmissorBaseURL, cfg.EmissorToken, log)

	// Serviços
	lancamentoService := lancamento.NewService(lancamentoRepo, contratoRepo, log)
	boletoService := boleto.NewService(boletoRepo, lancamentoRepo, log)
	cobrancaService := cobranca.NewService(boletoRepo, lancamentoRepo, emissor, cfg.LoteWorkers, log).
		ComNotificador(notificacao.NewWebhook(cfg.WebhookURL, log))
	prestacaoService := prestacao.NewService(prestacaoRepo, lancamentoRepo, referencias, log)

	// Handlers
	lancamentoHandler := lancamento.NewHandler(lancamentoService)
	boletoHandler := boleto.NewHandler(boletoService)
	cobrancaHandler := cobranca.NewHandler(cobrancaService)
	prestacaoHandler := prestacao.NewHandler(prestacaoService)

	// Router
	r := mux.NewRouter()

	// Rotas de lançamentos
	r.HandleFunc("/lancamentos", lancamentoHandler.Criar).Methods("POST")
	r.HandleFunc("/lancamentos", lancamentoHandler.Listar).Methods("GET")
	r.HandleFunc("/lancamentos/vencidos", lancamentoHandler.ListarVencidos).Methods("GET")
	r.HandleFunc("/lancamentos/estatisticas", lancamentoHandler.Estatisticas).Methods("GET")
	r.HandleFunc("/lancamentos/geracao", lancamentoHandler.GerarPorCompetencia).Methods("POST")
	r.HandleFunc("/lancamentos/geracao-automatica", lancamentoHandler.GerarAutomaticas).Methods("POST")
	r.HandleFunc("/lancamentos/{id}", lancamentoHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/lancamentos/{id}/baixa", lancamentoHandler.Baixar).Methods("POST")
	r.HandleFunc("/lancamentos/{id}/estorno", lancamentoHandler.Estornar).Methods("POST")
	r.HandleFunc("/lancamentos/{id}/cancelamento", lancamentoHandler.Cancelar).Methods("POST")

	// Rotas de boletos
	r.HandleFunc("/boletos", boletoHandler.Criar).Methods("POST")
	r.HandleFunc("/boletos/{id}", boletoHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/boletos/{id}/valor-devido", boletoHandler.ValorDevido).Methods("GET")

	// Rotas de cobrança em lote
	r.HandleFunc("/cobrancas/envio", cobrancaHandler.EnviarLote).Methods("POST")
	r.HandleFunc("/cobrancas/baixa", cobrancaHandler.CancelarLote).Methods("POST")
	r.HandleFunc("/cobrancas/{id}/baixa", cobrancaHandler.Cancelar).Methods("POST")

	// Rotas de prestação de contas
	r.HandleFunc("/prestacoes/previa", prestacaoHandler.Previa).Methods("POST")
	r.HandleFunc("/prestacoes/historico", prestacaoHandler.Historico).Methods("GET")
	r.HandleFunc("/prestacoes/estatisticas", prestacaoHandler.Estatisticas).Methods("GET")
	r.HandleFunc("/prestacoes", prestacaoHandler.Aprovar).Methods("POST")
	r.HandleFunc("/prestacoes", prestacaoHandler.Listar).Methods("GET")
	r.HandleFunc("/prestacoes/{id}", prestacaoHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/prestacoes/{id}", prestacaoHandler.Excluir).Methods("DELETE")
	r.HandleFunc("/prestacoes/{id}/cancelamento", prestacaoHandler.Cancelar).Methods("POST")
	r.HandleFunc("/prestacoes/{id}/repasse", prestacaoHandler.RegistrarRepasse).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)

	log.Info().Str("porta", cfg.Porta).Msg("servidor iniciado")
	if err := http.ListenAndServe(":"+cfg.Porta, handler); err != nil {
		log.Fatal().Err(err).Msg("servidor encerrado")
	}
}

// internal/config/config.go
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config concentra tudo que o serviço lê do ambiente.
type Config struct {
	Porta          string
	LogLevel       string
	LogPretty      bool
	LoteWorkers    int    // tamanho do pool de envio de boletos
	EmissorBaseURL string // endpoint da API bancária
	EmissorToken   string
	CacheTTLSeg    int    // TTL do cache de dados de referência
	WebhookURL     string // alertas operacionais; vazio desativa
}

// Load carrega .env (se existir) e monta a configuração com defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Porta:          getEnv("PORTA", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnv("LOG_PRETTY", "false") == "true",
		LoteWorkers:    getEnvInt("LOTE_WORKERS", 5),
		EmissorBaseURL: getEnv("EMISSOR_BASE_URL", "http://localhost:9090"),
		EmissorToken:   getEnv("EMISSOR_TOKEN", ""),
		CacheTTLSeg:    getEnvInt("CACHE_TTL_SEGUNDOS", 300),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
	}
}

func getEnv(chave, padrao string) string {
	if v := os.Getenv(chave); v != "" {
		return v
	}
	return padrao
}

func getEnvInt(chave string, padrao int) int {
	v := os.Getenv(chave)
	if v == "" {
		return padrao
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return padrao
	}
	return n
}

package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConectarBanco abre a conexão Postgres via GORM. Credenciais vêm do
// ambiente ou, na ausência, do Secrets Manager (ver secrets.go).
func ConectarBanco(porta uint, host, nomeBanco, secretID string) (*gorm.DB, error) {
	var sslMode string
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		sslMode = " sslmode=disable"
	}

	usuario, senha, err := obterCredenciais(secretID)
	if err != nil {
		return nil, fmt.Errorf("credenciais do banco: %w", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		host, usuario, senha, nomeBanco, porta, sslMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("conectar no banco: %w", err)
	}

	return database, nil
}

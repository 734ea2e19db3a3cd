package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type credenciais struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// obterCredenciais usa DB_USERNAME/DB_PASSWORD quando presentes; caso
// contrário busca o segredo no Secrets Manager.
func obterCredenciais(secretID string) (string, string, error) {
	usuario := os.Getenv("DB_USERNAME")
	senha := os.Getenv("DB_PASSWORD")
	if usuario != "" && senha != "" {
		return usuario, senha, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return "", "", fmt.Errorf("carregar configuração AWS: %w", err)
	}
	cliente := secretsmanager.NewFromConfig(cfg)

	saida, err := cliente.GetSecretValue(context.TODO(), &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("buscar segredo %q: %w", secretID, err)
	}

	var cred credenciais
	if err := json.Unmarshal([]byte(*saida.SecretString), &cred); err != nil {
		return "", "", fmt.Errorf("decodificar segredo: %w", err)
	}

	return cred.Username, cred.Password, nil
}

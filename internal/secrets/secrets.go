// Package secrets is the secret-by-name lookup collaborator.
package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Provider fetches a secret value by name.
type Provider interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// SecretsManagerAPI is the slice of the Secrets Manager client this package uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager implements Provider using AWS Secrets Manager.
type Manager struct {
	client SecretsManagerAPI
}

// NewManager creates a new Manager instance
func NewManager(client SecretsManagerAPI) *Manager {
	return &Manager{client: client}
}

func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	return *out.SecretString, nil
}

// EnvProvider implements Provider from environment variables, for the local
// dev server and tests. The secret name is the environment variable name.
type EnvProvider struct{}

func (EnvProvider) GetSecret(_ context.Context, name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return v, nil
}

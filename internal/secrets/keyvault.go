package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// KeyVaultResolver reads secrets from Azure Key Vault using ambient credentials.
type KeyVaultResolver struct {
	client *azsecrets.Client
}

// NewKeyVaultResolver authenticates with DefaultAzureCredential
// (environment, managed identity, or az CLI login).
func NewKeyVaultResolver(vaultURL string) (*KeyVaultResolver, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}

	return &KeyVaultResolver{client: client}, nil
}

// GetSecret returns the latest version of the named secret.
func (r *KeyVaultResolver) GetSecret(ctx context.Context, name string) (string, error) {
	resp, err := r.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%w: %s has no value", ErrSecretNotFound, name)
	}
	return *resp.Value, nil
}

package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/nishp77/thenewboston-node/tools/crypto"
)

// LoadSigningKey load the validator signing key from keyfile
func LoadSigningKey(keyfile string) (string, error) {
	keydata, err := os.ReadFile(keyfile)
	if err != nil {
		return "", fmt.Errorf("read keyfile fail %v", err)
	}
	signingKey := strings.TrimSpace(string(keydata))
	if _, err := crypto.PrivateKeyFromSigningKey(signingKey); err != nil {
		return "", err
	}
	return signingKey, nil
}

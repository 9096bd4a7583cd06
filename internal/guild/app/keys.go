package app

import (
	"fmt"

	"github.com/aussiebroadwan/guild/pkg/jwtx"
)

// LoadVerifier reads the identity provider's public keys and builds the
// bearer token verifier. Tokens are minted elsewhere; the guild only checks
// them.
func LoadVerifier(cfg Config) (*jwtx.KeySet, jwtx.Verifier, error) {
	keys, err := jwtx.LoadJWKSFile(cfg.JWKSFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load jwks %s: %w", cfg.JWKSFile, err)
	}
	return keys, jwtx.NewVerifierEdDSA(keys, cfg.JWTIssuer, cfg.JWTAudience), nil
}

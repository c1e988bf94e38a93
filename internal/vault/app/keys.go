package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
)

// InitKeyManager generates the process scoped session signing key. The key
// lives only in guarded memory, so every session ends when the process exits.
func InitKeyManager(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: cfg.Issuer})
	if err != nil {
		return nil, fmt.Errorf("failed to create session key: %w", err)
	}

	logger.Info("session signing key generated",
		"algorithm", km.Algorithm(),
		"kid", km.KID(),
		"token_ttl", cfg.TokenTTL,
	)
	logger.Warn("session signing key is ephemeral; all sessions end on restart")

	return km, nil
}

// InitSecretBox loads the master key that seals account secrets. Without a
// configured key a random one is generated, which is refused in production
// because stored accounts could not be opened after a restart.
func InitSecretBox(cfg Config, logger *slog.Logger) (*cryptox.SecretBox, error) {
	master, ephemeral, err := cryptox.LoadMasterKey(cfg.MasterKeyFile, MasterKeyEnv)
	if err != nil {
		return nil, err
	}

	if ephemeral {
		if cfg.Env == "prod" {
			return nil, fmt.Errorf("no master key configured: set VAULT_MASTER_KEY_FILE or %s", MasterKeyEnv)
		}
		logger.Warn("no master key configured; generated an ephemeral one. Stored accounts will be unreadable after restart")
	} else if cfg.MasterKeyFile != "" {
		logger.Info("master key loaded", "path", cfg.MasterKeyFile)
	} else {
		logger.Info("master key loaded from environment", "variable", MasterKeyEnv)
	}

	return cryptox.NewSecretBox(master)
}

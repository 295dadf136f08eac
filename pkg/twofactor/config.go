package twofactor

import "fmt"

type Config struct {
	Issuer          string `env:"MFA_ISSUER" envDefault:"mfakit"`        // Issuer is the service name shown in authenticator apps.
	BackupCodeCount int    `env:"MFA_BACKUP_CODE_COUNT" envDefault:"10"` // BackupCodeCount is the batch size minted on enrollment and regeneration.
}

// DefaultConfig returns the production defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		Issuer:          "mfakit",
		BackupCodeCount: 10,
	}
}

func (c Config) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("%w: issuer is required", ErrInvalidConfig)
	}
	if c.BackupCodeCount < 1 {
		return fmt.Errorf("%w: backup code count must be positive, got %d", ErrInvalidConfig, c.BackupCodeCount)
	}
	return nil
}

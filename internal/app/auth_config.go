package app

import (
	"github.com/charlesng35/hrms/internal/auth"
	"github.com/charlesng35/hrms/internal/services"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// AuthServiceOptions converts AuthConfig into AuthService options.
func (c AuthConfig) AuthServiceOptions() []services.AuthOption {
	if c.PasswordCost <= 0 {
		return nil
	}
	return []services.AuthOption{services.WithPasswordCost(c.PasswordCost)}
}

// AuditServiceOptions converts AuditConfig into AuditService options.
func (c AuditConfig) AuditServiceOptions() []services.AuditOption {
	if c.DefaultLimit <= 0 && c.MaxLimit <= 0 {
		return nil
	}
	return []services.AuditOption{services.WithLogLimits(c.DefaultLimit, c.MaxLimit)}
}

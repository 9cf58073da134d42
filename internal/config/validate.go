package config

import (
	"fmt"
	"strings"
)

// Event transports.
const (
	TransportInProcess = "inprocess"
	TransportRedis     = "redis"
)

// Prune modes.
const (
	PruneDelete     = "delete"
	PruneDeactivate = "deactivate"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be >= 0")
	}

	if err := c.Push.validate(); err != nil {
		return fmt.Errorf("push: %w", err)
	}

	if err := c.Automation.validate(); err != nil {
		return fmt.Errorf("automation: %w", err)
	}

	if len(c.Approval.ElevatedRoles()) == 0 {
		return fmt.Errorf("approval: elevated_roles must not be empty")
	}

	if err := c.Events.validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}

	return nil
}

func (p *PushConfig) validate() error {
	// Missing keys are allowed at startup; deliveries then fail with a configuration error.
	if (p.VAPIDPublicKey == "") != (p.VAPIDPrivateKey == "") {
		return fmt.Errorf("vapid_public_key and vapid_private_key must be set together")
	}
	if p.Subject != "" && !strings.HasPrefix(p.Subject, "mailto:") && !strings.HasPrefix(p.Subject, "https://") {
		return fmt.Errorf("subject must start with mailto: or https:// (got %q)", p.Subject)
	}
	if p.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be > 0 (got %v)", p.SendTimeout)
	}
	if p.DeliveryTimeout <= 0 {
		return fmt.Errorf("delivery_timeout must be > 0 (got %v)", p.DeliveryTimeout)
	}
	if p.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0 (got %v)", p.TTL)
	}
	if p.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be > 0 (got %d)", p.MaxConcurrency)
	}
	switch p.PruneMode {
	case PruneDelete, PruneDeactivate:
	default:
		return fmt.Errorf("prune_mode must be %q or %q (got %q)", PruneDelete, PruneDeactivate, p.PruneMode)
	}
	if p.InactiveRetentionDays < 1 {
		return fmt.Errorf("inactive_retention_days must be >= 1 (got %d)", p.InactiveRetentionDays)
	}
	return nil
}

func (a *AutomationConfig) validate() error {
	if a.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be > 0 (got %d)", a.MaxConcurrency)
	}
	if a.LookupTimeout <= 0 {
		return fmt.Errorf("lookup_timeout must be > 0 (got %v)", a.LookupTimeout)
	}
	if a.MaxRoleRecipients <= 0 {
		return fmt.Errorf("max_role_recipients must be > 0 (got %d)", a.MaxRoleRecipients)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	switch e.Transport {
	case TransportInProcess:
	case TransportRedis:
		if e.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis transport")
		}
		if e.RedisChannel == "" {
			return fmt.Errorf("redis_channel must not be empty")
		}
	default:
		return fmt.Errorf("transport must be %q or %q (got %q)", TransportInProcess, TransportRedis, e.Transport)
	}
	return nil
}

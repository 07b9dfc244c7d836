package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides which sender domains are triaged by the SMTP intake
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new sender allowlist. An empty list allows every sender.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Initialized sender allowlist", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// Allows reports whether mail from the given address should be triaged.
// Subdomains of an allowed domain are allowed as well.
func (c *Checker) Allows(from string) bool {
	if len(c.domains) == 0 {
		return true
	}

	domain := senderDomain(from)
	if domain == "" {
		return false
	}

	for _, allowed := range c.domains {
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}

	if c.logger != nil {
		c.logger.Debug("Sender domain not in allowlist",
			zap.String("domain", domain),
			zap.String("email", from))
	}
	return false
}

func senderDomain(from string) string {
	from = strings.Trim(strings.TrimSpace(from), "<>")
	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return ""
	}
	return strings.ToLower(from[at+1:])
}

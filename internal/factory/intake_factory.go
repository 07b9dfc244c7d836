package factory

import (
	"github.com/mikey/email-triage/internal/adapters/smtpintake"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/ports"
	"github.com/mikey/email-triage/internal/whitelist"
	"go.uber.org/zap"
)

// IntakeFactory creates the mail intakes enabled in the configuration
type IntakeFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor smtpintake.Processor
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, processor smtpintake.Processor) *IntakeFactory {
	return &IntakeFactory{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
	}
}

// CreateIntakes returns every enabled intake; the slice is empty when none are enabled
func (f *IntakeFactory) CreateIntakes() []ports.Intake {
	intakes := make([]ports.Intake, 0, 1)

	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Enabled {
		allowlist := whitelist.NewChecker(smtpCfg.AllowedDomains, f.logger)
		intakes = append(intakes, smtpintake.NewSMTPIntake(f.processor, allowlist, smtpCfg, f.logger))
	}

	return intakes
}

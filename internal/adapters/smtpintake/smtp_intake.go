package smtpintake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/whitelist"
	"go.uber.org/zap"
)

// Processor triages the text of one email
type Processor interface {
	Process(ctx context.Context, content string) *core.Classification
}

var errEmptyMessage = &smtp.SMTPError{
	Code:         554,
	EnhancedCode: smtp.EnhancedCode{5, 6, 0},
	Message:      "Message has no text content to triage",
}

// SMTPIntake accepts mail over SMTP and triages every message it receives
type SMTPIntake struct {
	processor  Processor
	allowlist  *whitelist.Checker
	logger     *zap.Logger
	listenAddr string
	server     *smtp.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewSMTPIntake creates a new SMTP intake
func NewSMTPIntake(processor Processor, allowlist *whitelist.Checker, cfg config.SMTPConfig, logger *zap.Logger) *SMTPIntake {
	i := &SMTPIntake{
		processor:  processor,
		allowlist:  allowlist,
		logger:     logger,
		listenAddr: cfg.ListenAddress,
	}

	i.server = smtp.NewServer(&smtpBackend{intake: i})
	i.server.Addr = cfg.ListenAddress
	i.server.Domain = cfg.Domain
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = cfg.MaxMessageBytes
	i.server.MaxRecipients = 50

	return i
}

// Start listens on the configured address and serves in the background
func (i *SMTPIntake) Start() error {
	l, err := net.Listen("tcp", i.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", i.listenAddr, err)
	}

	i.mu.Lock()
	i.listener = l
	i.mu.Unlock()

	i.logger.Info("SMTP intake starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := i.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			i.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop closes the listener and all open sessions
func (i *SMTPIntake) Stop() error {
	i.mu.Lock()
	started := i.listener != nil
	i.mu.Unlock()
	if !started {
		return nil
	}
	return i.server.Close()
}

// Addr returns the address the intake listens on once started
func (i *SMTPIntake) Addr() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.listener == nil {
		return i.listenAddr
	}
	return i.listener.Addr().String()
}

func (i *SMTPIntake) handle(sender string, raw []byte) error {
	msg := parseMessage(raw)
	content := msg.Content()
	if content == "" {
		i.logger.Info("Rejecting message without text content", zap.String("from", sender))
		return errEmptyMessage
	}

	from := sender
	if from == "" {
		from = msg.From
	}
	if i.allowlist != nil && !i.allowlist.Allows(from) {
		i.logger.Info("Accepted message from sender outside allowlist without triage",
			zap.String("from", from))
		return nil
	}

	result := i.processor.Process(context.Background(), content)
	i.logger.Info("Triaged inbound email",
		zap.String("from", from),
		zap.String("subject", msg.Subject),
		zap.String("category", result.Category),
		zap.String("outcome", result.Outcome.String()),
		zap.String("model", result.ModelUsed))
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake *SMTPIntake
	sender string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient
func (s *smtpSession) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

// Data reads the message and triages it
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.intake.handle(s.sender, raw)
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

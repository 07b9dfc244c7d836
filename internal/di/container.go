package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/httpapi"
	"github.com/mikey/email-triage/internal/adapters/smtpintake"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/extract"
	"github.com/mikey/email-triage/internal/factory"
	"github.com/mikey/email-triage/internal/logging"
	"github.com/mikey/email-triage/internal/ports"
	"github.com/mikey/email-triage/internal/utils"
	"github.com/mikey/email-triage/web"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	return buildContainer(config.New)
}

func buildContainer(newConfig func() (*config.Config, error)) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(newConfig); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register history repository
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.HistoryFactory) (core.HistoryRepository, error) {
		return f.CreateHistoryRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache repository and settings
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheSettings, error) {
		return f.Settings()
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register HTTP API
	if err := container.Provide(func(
		service *core.TriageService,
		extractor *extract.Extractor,
		cfg *config.Config,
		logger *zap.Logger,
	) (*httpapi.Server, error) {
		serverCfg, err := cfg.GetServer()
		if err != nil {
			return nil, err
		}
		static, err := web.Static(serverCfg.StaticDir)
		if err != nil {
			return nil, err
		}

		handlers := httpapi.NewHandlers(service, extractor, serverCfg.MaxUploadBytes, logger)
		router := httpapi.NewRouter(handlers, httpapi.RouterOptions{
			AllowedOrigins: serverCfg.CORSAllowedOrigins,
			Static:         static,
		}, logger)
		return httpapi.NewServer(serverCfg.Address(), router, serverCfg.ShutdownTimeout, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register mail intakes
	if err := container.Provide(func(service *core.TriageService) smtpintake.Processor {
		return service
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) []ports.Intake {
		return f.CreateIntakes()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the LLM handle, classifier and extractor shared by
// the server and the CLI
func provideCore(container *dig.Container) error {
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMHandle, error) {
		return f.CreateLLMHandle()
	}); err != nil {
		return err
	}

	if err := container.Provide(func(handle core.LLMHandle, cfg *config.Config, logger *zap.Logger) (*core.Classifier, error) {
		llmCfg, err := cfg.GetLLM()
		if err != nil {
			return nil, err
		}
		return core.NewClassifier(handle, llmCfg.Timeout, logger), nil
	}); err != nil {
		return err
	}

	if err := container.Provide(func(logger *zap.Logger) extract.PageReader {
		return extract.NewFitzPageReader(logger)
	}); err != nil {
		return err
	}
	return container.Provide(extract.NewExtractor)
}

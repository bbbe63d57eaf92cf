package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bububa/docassist/agents"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/chat/providers"
	"github.com/bububa/docassist/components/document"
	"github.com/bububa/docassist/config"
	"github.com/bububa/docassist/logger"
	"github.com/bububa/docassist/session"
	"github.com/bububa/docassist/tools"
	"github.com/bububa/docassist/tools/calculator"
	"github.com/bububa/docassist/tools/retrieval"
)

var agentKinds = []agents.Kind{agents.QAKind, agents.SummarizationKind, agents.CalculationKind}

// app is everything a command needs, built from the config
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *tools.Registry
	router   *agents.Router
	closers  []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func loadConfig() (*config.Config, error) {
	path, err := config.FindConfig(rootFlags.config)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newRegistry builds the tools every agent subset is taken from
func newRegistry(ctx context.Context, cfg *config.Config, l *zap.Logger) (*tools.Registry, error) {
	corpus := retrieval.DefaultCorpus()
	if cfg.Corpus.Path != "" {
		docs, err := document.NewLoader(document.WithLogger(l)).Load(ctx, cfg.Corpus.Path)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		corpus = retrieval.NewCorpus(docs...)
		l.Info("corpus loaded", zap.String("path", cfg.Corpus.Path), zap.Int("documents", corpus.Len()))
	}
	return tools.NewRegistry(
		retrieval.NewRetrieveTool(corpus),
		retrieval.NewSearchTool(corpus),
		calculator.New(),
	)
}

func newStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (session.Store, func() error, error) {
	switch cfg.Session.Store {
	case config.RedisStore:
		store, err := session.NewRedisStoreFromURL(ctx, cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		store.WithLogger(l)
		return store, store.Close, nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL), func() error { return nil }, nil
	}
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := logger.Options{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
		File:    cfg.Log.File,
	}
	if rootFlags.verbose {
		opts.Level = "debug"
		opts.Console = true
	}
	l, err := logger.New(opts)
	if err != nil {
		return nil, err
	}
	ret := &app{cfg: cfg, logger: l}

	chatOpts := []chat.Option{
		chat.WithTemperature(cfg.Temperature),
		chat.WithMaxTokens(cfg.MaxTokens),
		chat.WithLogger(l),
	}
	if cfg.Model != "" {
		chatOpts = append(chatOpts, chat.WithModel(cfg.Model))
	}
	model, err := providers.New(providers.Provider(cfg.Provider), cfg.APIKey, cfg.BaseURL, chatOpts...)
	if err != nil {
		return nil, err
	}

	if ret.registry, err = newRegistry(ctx, cfg, l); err != nil {
		return nil, err
	}

	store, closeStore, err := newStore(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	ret.closers = append(ret.closers, closeStore)

	routerOpts := []agents.RouterOption{agents.WithRouterLogger(l)}
	if cfg.Log.Events != "" {
		events := logger.NewZapLogger(cfg.Log.Events)
		ret.closers = append(ret.closers, events.Close)
		routerOpts = append(routerOpts, agents.WithEventLogger(events))
	}
	for _, kind := range agentKinds {
		subset, err := ret.registry.Subset(agents.DefaultToolNames(kind)...)
		if err != nil {
			return nil, err
		}
		agentOpts := []agents.Option{
			agents.WithModel(model),
			agents.WithTools(subset),
			agents.WithMaxIterations(cfg.MaxIterations),
			agents.WithLogger(l.Named(string(kind))),
		}
		if v, ok := cfg.Confidence[string(kind)]; ok {
			agentOpts = append(agentOpts, agents.WithConfidence(v))
		}
		routerOpts = append(routerOpts, agents.WithAgent(agents.NewToolAgent(kind, agentOpts...)))
	}
	triage := agents.NewTriage(agents.WithModel(model), agents.WithLogger(l.Named("triage")))
	ret.router = agents.NewRouter(triage, store, routerOpts...)
	return ret, nil
}

package di

import (
	"context"
	"errors"
	"fmt"

	"mcp-agent/internal/adapter/tool"
	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/infrastructure/browser/htmlclean"
	"mcp-agent/internal/infrastructure/browser/rod"
	"mcp-agent/internal/infrastructure/cache"
	"mcp-agent/internal/infrastructure/env"
	"mcp-agent/internal/infrastructure/httpapi"
	"mcp-agent/internal/infrastructure/llm/langchain"
	"mcp-agent/internal/infrastructure/llm/openrouter"
	"mcp-agent/internal/infrastructure/logger"
	"mcp-agent/internal/infrastructure/metrics"
	"mcp-agent/internal/infrastructure/prompts"
	"mcp-agent/internal/infrastructure/state"
	"mcp-agent/internal/infrastructure/tokenizer"
	"mcp-agent/internal/usecase/executor"
	"mcp-agent/internal/usecase/navigate"
	"mcp-agent/internal/usecase/pagesnapshot"
	"mcp-agent/internal/usecase/policy"
	"mcp-agent/internal/usecase/snapshot"
	"mcp-agent/internal/usecase/tasks"
)

const metricsNamespace = "mcp_agent"

type Container struct {
	Config       env.Runtime
	Logger       output.LoggerPort
	Metrics      *metrics.Collector
	Store        output.StateStore
	Navigator    input.Navigator
	Snapshots    input.PageSnapshotter
	Tracker      *tasks.Tracker
	Tools        output.ToolProvider
	TaskExecutor input.TaskExecutor
	Server       *httpapi.Server
}

func NewContainer(ctx context.Context, cfg env.Runtime) (*Container, error) {
	logOpts := logger.DefaultOptions()
	logOpts.Level = cfg.LogLevel
	logOpts.Format = cfg.LogFormat
	logOpts.File = cfg.LogFile
	log, err := logger.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llm, err := newLLM(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	collector := metrics.NewCollector(metricsNamespace)
	launcher := rod.NewLauncher(log)

	navCfg := navigate.DefaultConfig()
	navCfg.Launch.Headless = cfg.BrowserHeadless
	navCfg.Launch.Bin = cfg.BrowserBin
	snapshots := snapshot.NewSnapshotter(snapshot.NewDefaultExtractor(log), snapshot.FormatOutline, log)
	navigator := navigate.New(launcher, snapshots, collector, log, navCfg)

	pageCfg := pagesnapshot.DefaultConfig()
	pageCfg.Launch = navCfg.Launch
	pages := pagesnapshot.New(
		launcher,
		cache.NewFIFO(cache.DefaultCapacity),
		tokenizer.NewTiktoken(cfg.LLMModel, log),
		collector,
		log,
		pageCfg,
	)

	store := newStateStore(ctx, cfg, log)
	tracker := tasks.NewTracker(store, tasks.Config{TTL: cfg.TaskTTL, RecentMax: cfg.RecentTasksMax}, log)

	toolbox := tool.NewToolbox(launcher, navigator, snapshots, tool.Config{
		Launch:  navCfg.Launch,
		Context: navCfg.Context,
		Extract: htmlclean.DefaultConfig(),
	}, log)

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.DefaultSystemPrompt, toolbox.Definitions())
	if err != nil {
		_ = store.Close()
		log.Close()
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}

	execCfg := executor.DefaultConfig()
	execCfg.MaxIterations = cfg.MaxIterations
	execCfg.MaxExecutionTime = cfg.MaxExecutionTime
	execCfg.ToolTimeout = cfg.ToolTimeout
	uc := executor.New(llm, toolbox, log, systemPrompt, execCfg)

	apiCfg := httpapi.DefaultConfig()
	apiCfg.APIKey = cfg.APIKey
	apiCfg.CORSOrigins = cfg.CORSOrigins
	apiCfg.PolicyEnforcement = cfg.PolicyEnforcement
	apiCfg.RateLimitRPS = cfg.RateLimitRPS
	apiCfg.RateLimitBurst = cfg.RateLimitBurst
	apiCfg.AccessLogJSON = cfg.LogFormat == "json"
	apiCfg.LogLevel = cfg.LogLevel

	server := httpapi.NewServer(httpapi.Deps{
		Executor:       uc,
		Tools:          toolbox,
		Navigator:      navigator,
		Snapshots:      pages,
		Tracker:        tracker,
		Policy:         policy.New(cfg.MaxQueryChars, cfg.AllowlistedDomains),
		Metrics:        collector,
		MetricsHandler: collector.Handler(),
		Logger:         log,
	}, apiCfg)

	return &Container{
		Config:       cfg,
		Logger:       log,
		Metrics:      collector,
		Store:        store,
		Navigator:    navigator,
		Snapshots:    pages,
		Tracker:      tracker,
		Tools:        toolbox,
		TaskExecutor: uc,
		Server:       server,
	}, nil
}

// ErrLLMNotConfigured is returned by agent runs when no LLM API key is set.
// Browser endpoints keep working without one.
var ErrLLMNotConfigured = errors.New("OPENAI_API_KEY or OPENROUTER_API_KEY is required to run the agent")

type unconfiguredLLM struct{}

func (unconfiguredLLM) Chat(context.Context, output.ChatRequest) (*output.ChatResponse, error) {
	return nil, ErrLLMNotConfigured
}

func newLLM(cfg env.Runtime, log output.LoggerPort) (output.LLMPort, error) {
	if cfg.LLMAPIKey == "" {
		log.Warn("No LLM API key configured, agent_executor will fail until one is set")
		return unconfiguredLLM{}, nil
	}

	switch cfg.LLMProvider {
	case env.LLMProviderOpenAI, env.LLMProviderOpenRouter:
		llmCfg := openrouter.DefaultConfig(cfg.LLMAPIKey, cfg.LLMModel)
		llmCfg.BaseURL = cfg.LLMBaseURL
		if llmCfg.BaseURL == "" && cfg.LLMProvider == env.LLMProviderOpenRouter {
			llmCfg.BaseURL = openrouter.OpenRouterBaseURL
		}
		llmCfg.Logger = log
		return openrouter.NewOpenRouterAdapter(llmCfg), nil

	case env.LLMProviderLangchain:
		adapter, err := langchain.NewOpenAI(langchain.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create langchain client: %w", err)
		}
		return adapter, nil
	}

	return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
}

// newStateStore prefers Redis and falls back to process memory when it is
// not configured or unreachable.
func newStateStore(ctx context.Context, cfg env.Runtime, log output.LoggerPort) output.StateStore {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, task state is kept in memory")
		return state.NewMemoryStore()
	}

	store, err := state.NewRedisStore(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory task state", "error", err)
		return state.NewMemoryStore()
	}
	log.Info("Connected to Redis for task state")
	return store
}

func (c *Container) Close() {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("Failed to close state store", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

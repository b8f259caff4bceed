package env

import (
	"net"
	"strconv"
	"time"
)

const (
	LLMProviderOpenAI     = "openai"
	LLMProviderOpenRouter = "openrouter"
	LLMProviderLangchain  = "langchain"
)

// Runtime is the process configuration read once at startup.
type Runtime struct {
	APIKey      string
	Host        string
	Port        int
	CORSOrigins []string

	PolicyEnforcement  bool
	MaxQueryChars      int
	AllowlistedDomains []string

	RedisURL       string
	TaskTTL        time.Duration
	RecentTasksMax int

	LLMProvider      string
	LLMAPIKey        string
	LLMModel         string
	LLMBaseURL       string
	MaxIterations    int
	MaxExecutionTime time.Duration
	ToolTimeout      time.Duration

	BrowserHeadless bool
	BrowserBin      string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
	LogFile   string
}

func (r Runtime) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

func (e *EnvService) LoadConfig() Runtime {
	maxIterations := e.GetInt("MAX_ITERATIONS", 100)
	if v := e.GetInt("LANGCHAIN_MAX_ITERATIONS", 0); v > 0 {
		maxIterations = v
	}

	cors := e.GetCSV("CORS_ORIGINS")
	if len(cors) == 0 {
		cors = []string{"*"}
	}

	return Runtime{
		APIKey:      e.Get("API_KEY"),
		Host:        e.GetDefault("HOST", "0.0.0.0"),
		Port:        e.GetInt("PORT", 8000),
		CORSOrigins: cors,

		PolicyEnforcement:  e.GetBool("POLICY_ENFORCEMENT", false),
		MaxQueryChars:      e.GetInt("MAX_QUERY_CHARS", 5_000_000),
		AllowlistedDomains: e.GetCSV("ALLOWLISTED_DOMAINS"),

		RedisURL:       e.Get("REDIS_URL"),
		TaskTTL:        time.Duration(e.GetInt("TASK_TTL_SECONDS", 60*60*24)) * time.Second,
		RecentTasksMax: e.GetInt("RECENT_TASKS_MAX", 200),

		LLMProvider:      e.GetDefault("LLM_PROVIDER", LLMProviderOpenAI),
		LLMAPIKey:        e.GetDefault("OPENAI_API_KEY", e.Get("OPENROUTER_API_KEY")),
		LLMModel:         e.GetDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL:       e.Get("LLM_BASE_URL"),
		MaxIterations:    maxIterations,
		MaxExecutionTime: time.Duration(e.GetInt("MAX_EXECUTION_TIME", 180)) * time.Second,
		ToolTimeout:      time.Duration(e.GetInt("TOOL_TIMEOUT", 60)) * time.Second,

		BrowserHeadless: e.GetBool("BROWSER_HEADLESS", true),
		BrowserBin:      e.Get("BROWSER_BIN"),

		RateLimitRPS:   e.GetFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: e.GetInt("RATE_LIMIT_BURST", 10),

		LogLevel:  e.GetDefault("LOG_LEVEL", "info"),
		LogFormat: e.GetDefault("LOG_FORMAT", "json"),
		LogFile:   e.Get("LOG_FILE"),
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

// llm.model 이 비어 있을 때 공급자별로 쓰는 모델
var defaultModels = map[string]string{
	LLMProviderOpenAI: "gpt-4o-mini",
	LLMProviderGemini: "gemini-2.5-flash",
}

const (
	ImageProviderGPTImage = "gpt-image"
	ImageProviderDallE    = "dalle"
	ImageProviderFlux     = "flux"
	ImageProviderFirefly  = "firefly"
	ImageProviderImagen   = "imagen"
	ImageProviderLocal    = "local"
)

const (
	StrategyHeuristic   = "heuristic"
	StrategyReadability = "readability"
	StrategyTrafilatura = "trafilatura"
	StrategyGoose       = "goose"
)

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	LLM       LLMConfig       `yaml:"llm"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Generator GeneratorConfig `yaml:"generator"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Reddit    RedditConfig    `yaml:"reddit"`
	Image     ImageConfig     `yaml:"image"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LLMConfig 는 분석/댓글 생성에 공통으로 쓰이는 텍스트 생성 모델 설정이다.
type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	Quota        QuotaConfig   `yaml:"quota"`
}

// QuotaConfig 는 LLM 호출에 대한 속도/일일 한도를 정의한다.
type QuotaConfig struct {
	// RequestsPerMinute 는 분당 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 일일 최대 요청 수이다. 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

type AnalyzerConfig struct {
	Temperature float64 `yaml:"temperature"`
	Language    string  `yaml:"language"`
}

type GeneratorConfig struct {
	Temperature float64 `yaml:"temperature"`
	Parallel    bool    `yaml:"parallel"`
	Language    string  `yaml:"language"`
}

type FetcherConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Strategy     string        `yaml:"strategy"`
	RenderJS     bool          `yaml:"render_js"`
	ChromePath   string        `yaml:"chrome_path"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

type RedditConfig struct {
	ClientID          string        `yaml:"client_id"`
	ClientSecret      string        `yaml:"client_secret"`
	UserAgent         string        `yaml:"user_agent"`
	SearchLimit       int           `yaml:"search_limit"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// Enabled reports whether Reddit credentials are present.
func (r RedditConfig) Enabled() bool {
	return usableKey(r.ClientID) && usableKey(r.ClientSecret)
}

type ImageConfig struct {
	Provider string        `yaml:"provider"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Timeout  time.Duration `yaml:"timeout"`
	OpenAI   OpenAIImage   `yaml:"openai"`
	DallE    DallEImage    `yaml:"dalle"`
	Flux     FluxImage     `yaml:"flux"`
	Firefly  FireflyImage  `yaml:"firefly"`
	Imagen   ImagenImage   `yaml:"imagen"`
}

type OpenAIImage struct {
	Model string `yaml:"model"`
}

type DallEImage struct {
	Model   string `yaml:"model"`
	Quality string `yaml:"quality"`
	Style   string `yaml:"style"`
}

type FluxImage struct {
	APIKey       string        `yaml:"api_key"`
	Endpoint     string        `yaml:"endpoint"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type FireflyImage struct {
	ClientID    string `yaml:"client_id"`
	AccessToken string `yaml:"access_token"`
	Endpoint    string `yaml:"endpoint"`
}

type ImagenImage struct {
	Model string `yaml:"model"`
}

type PipelineConfig struct {
	// AbortOnDegradedAnalysis 가 true 이면 분석 실패 시 실행을 Failed 로 끝낸다.
	AbortOnDegradedAnalysis bool `yaml:"abort_on_degraded_analysis"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default 는 config.yaml 이 없을 때도 동작 가능한 기본 설정을 반환한다.
func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		LLM: LLMConfig{
			Provider: LLMProviderOpenAI,
			BaseURL:  "https://api.openai.com/v1",
			Timeout:  60 * time.Second,
		},
		Analyzer:  AnalyzerConfig{Temperature: 0.7, Language: "Simplified Chinese"},
		Generator: GeneratorConfig{Temperature: 0.8, Language: "Simplified Chinese"},
		Fetcher: FetcherConfig{
			Timeout:      10 * time.Second,
			Strategy:     StrategyHeuristic,
			MaxBodyBytes: 8 << 20,
		},
		Reddit: RedditConfig{
			UserAgent:         "NewsCommentBot/1.0",
			SearchLimit:       10,
			RequestsPerMinute: 60,
			Timeout:           15 * time.Second,
		},
		Image: ImageConfig{
			Provider: ImageProviderGPTImage,
			Width:    1024,
			Height:   1024,
			Timeout:  120 * time.Second,
			OpenAI:   OpenAIImage{Model: "gpt-image-1"},
			DallE:    DallEImage{Model: "dall-e-3", Quality: "standard", Style: "natural"},
			Flux: FluxImage{
				Endpoint:     "https://api.bfl.ai/v1/flux-pro-1.1",
				PollInterval: time.Second,
			},
			Firefly: FireflyImage{Endpoint: "https://firefly-api.adobe.io/v3/images/generate"},
			Imagen:  ImagenImage{Model: "imagen-3.0-generate-002"},
		},
		Output: OutputConfig{Dir: "./output"},
		Server: ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}},
	}
}

// Load 는 기본값 → config.yaml → 환경변수 순서로 설정을 덮어쓴다.
// path 가 비어 있으면 작업 디렉터리부터 상위로 올라가며 config.yaml 을 찾고,
// 찾지 못하면 기본값과 환경변수만 사용한다.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if base := GetBasePath(); base != "" {
			path = filepath.Join(base, CONFIG_FILE)
		}
	}

	envDir := "."
	if path != "" {
		envDir = filepath.Dir(path)
	}
	// .env 는 선택 사항이다.
	_ = godotenv.Load(filepath.Join(envDir, ENV_FILE))

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	// 공급자만 바꾼 경우에도 그 공급자의 모델을 쓰도록 모델은 마지막에 채운다.
	if strings.TrimSpace(cfg.LLM.Model) == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	setString := func(env string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}

	setString("OPENAI_API_KEY", &cfg.LLM.OpenAIAPIKey)
	setString("GEMINI_API_KEY", &cfg.LLM.GeminiAPIKey)
	setString("LLM_PROVIDER", &cfg.LLM.Provider)
	setString("LLM_MODEL", &cfg.LLM.Model)
	setString("REDDIT_CLIENT_ID", &cfg.Reddit.ClientID)
	setString("REDDIT_CLIENT_SECRET", &cfg.Reddit.ClientSecret)
	setString("FLUX_API_KEY", &cfg.Image.Flux.APIKey)
	setString("FIREFLY_API_KEY", &cfg.Image.Firefly.ClientID)
	setString("FIREFLY_ACCESS_TOKEN", &cfg.Image.Firefly.AccessToken)
	setString("IMAGE_PROVIDER", &cfg.Image.Provider)
	setString("OUTPUT_DIR", &cfg.Output.Dir)
	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("CHROME_PATH", &cfg.Fetcher.ChromePath)
}

// Validate 는 실행 전에 잡아야 하는 설정 오류를 모두 모아서 반환한다.
func (c *AppConfig) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case LLMProviderOpenAI:
		if !usableKey(c.LLM.OpenAIAPIKey) {
			errs = append(errs, errors.New("llm: openai api key is required"))
		}
	case LLMProviderGemini:
		if !usableKey(c.LLM.GeminiAPIKey) {
			errs = append(errs, errors.New("llm: gemini api key is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("llm: unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm: model is required"))
	} else if c.LLM.Provider == LLMProviderGemini && !strings.HasPrefix(c.LLM.Model, "gemini") && !strings.HasPrefix(c.LLM.Model, "gemma") {
		errs = append(errs, fmt.Errorf("llm: model %q is not a gemini model", c.LLM.Model))
	}

	switch c.Image.Provider {
	case ImageProviderGPTImage, ImageProviderDallE:
		if !usableKey(c.LLM.OpenAIAPIKey) {
			errs = append(errs, fmt.Errorf("image: provider %s requires an openai api key", c.Image.Provider))
		}
	case ImageProviderFlux:
		if !usableKey(c.Image.Flux.APIKey) {
			errs = append(errs, errors.New("image: flux api key is required"))
		}
	case ImageProviderFirefly:
		if !usableKey(c.Image.Firefly.ClientID) || !usableKey(c.Image.Firefly.AccessToken) {
			errs = append(errs, errors.New("image: firefly client id and access token are required"))
		}
	case ImageProviderImagen:
		if !usableKey(c.LLM.GeminiAPIKey) {
			errs = append(errs, errors.New("image: imagen requires a gemini api key"))
		}
	case ImageProviderLocal:
	default:
		errs = append(errs, fmt.Errorf("image: unknown provider %q", c.Image.Provider))
	}

	switch c.Fetcher.Strategy {
	case StrategyHeuristic, StrategyReadability, StrategyTrafilatura, StrategyGoose:
	default:
		errs = append(errs, fmt.Errorf("fetcher: unknown strategy %q", c.Fetcher.Strategy))
	}

	if c.Analyzer.Temperature < 0 || c.Analyzer.Temperature > 2 {
		errs = append(errs, fmt.Errorf("analyzer: temperature %.2f out of range [0,2]", c.Analyzer.Temperature))
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		errs = append(errs, fmt.Errorf("generator: temperature %.2f out of range [0,2]", c.Generator.Temperature))
	}
	if c.Reddit.SearchLimit <= 0 {
		errs = append(errs, errors.New("reddit: search_limit must be positive"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output: dir is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// usableKey 는 비어 있거나 "your_..." 형태의 자리표시자 값을 제외한다.
func usableKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !strings.HasPrefix(strings.ToLower(key), "your_")
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

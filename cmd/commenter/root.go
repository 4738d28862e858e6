package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"news-comment/analyzer"
	"news-comment/config"
	"news-comment/generator"
	"news-comment/imagegen"
	"news-comment/llm"
	"news-comment/parser"
	"news-comment/pipeline"
	"news-comment/quota"
	"news-comment/reddit"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "commenter",
		Short:        "뉴스 기사로 스타일별 소셜 댓글과 이미지를 생성한다",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config.yaml 경로 (비어 있으면 작업 디렉터리부터 상위로 탐색)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "로그 레벨 (설정 파일 값을 덮어씀)")

	cmd.AddCommand(newRunCmd(flags), newFeedCmd(flags), newServeCmd(flags))
	return cmd
}

// loadConfig 는 설정을 읽고 검증한 뒤 전역 로거를 초기화한다.
func loadConfig(flags *rootFlags) (*config.AppConfig, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	config.InitLogger(cfg.Logging)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildOrchestrator 는 설정으로 각 단계를 만들어 하나의 파이프라인으로 묶는다.
func buildOrchestrator(ctx context.Context, cfg *config.AppConfig) (*pipeline.Orchestrator, error) {
	limiter := quota.NewLimiter(cfg.LLM.Quota)
	client, err := llm.New(ctx, cfg.LLM, limiter)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	backend, err := imagegen.NewBackend(ctx, cfg.Image, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create image backend: %w", err)
	}

	stages := pipeline.Stages{
		Fetcher:     parser.NewFetcher(cfg.Fetcher),
		Analyzer:    analyzer.New(client, cfg.Analyzer),
		Miner:       reddit.NewMinerFromConfig(cfg.Reddit),
		Generator:   generator.New(client, cfg.Generator),
		Illustrator: imagegen.New(backend, cfg.Image),
	}

	config.InfoWithFields("pipeline ready", config.Fields{
		"llm_provider":   cfg.LLM.Provider,
		"llm_model":      cfg.LLM.Model,
		"image_provider": cfg.Image.Provider,
		"reddit":         cfg.Reddit.Enabled(),
		"strategy":       cfg.Fetcher.Strategy,
	})
	return pipeline.New(stages, cfg), nil
}

package imagegen

import (
	"context"
	"fmt"

	"news-comment/config"
)

// NewBackend 는 image.provider 에 해당하는 백엔드를 만든다. local 이면 nil 을 돌려준다.
func NewBackend(ctx context.Context, cfg config.ImageConfig, llmCfg config.LLMConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ImageProviderGPTImage:
		return NewGPTImageBackend(OpenAIOptions{
			APIKey:  llmCfg.OpenAIAPIKey,
			Model:   cfg.OpenAI.Model,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Timeout: cfg.Timeout,
		}), nil
	case config.ImageProviderDallE:
		return NewDallEBackend(OpenAIOptions{
			APIKey:  llmCfg.OpenAIAPIKey,
			Model:   cfg.DallE.Model,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Quality: cfg.DallE.Quality,
			Style:   cfg.DallE.Style,
			Timeout: cfg.Timeout,
		}), nil
	case config.ImageProviderFlux:
		return NewFluxBackend(FluxOptions{
			Endpoint:     cfg.Flux.Endpoint,
			APIKey:       cfg.Flux.APIKey,
			Width:        cfg.Width,
			Height:       cfg.Height,
			PollInterval: cfg.Flux.PollInterval,
		}), nil
	case config.ImageProviderFirefly:
		return NewFireflyBackend(FireflyOptions{
			Endpoint:    cfg.Firefly.Endpoint,
			ClientID:    cfg.Firefly.ClientID,
			AccessToken: cfg.Firefly.AccessToken,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Timeout:     cfg.Timeout,
		}), nil
	case config.ImageProviderImagen:
		return NewImagenBackend(ctx, llmCfg.GeminiAPIKey, cfg.Imagen.Model)
	case config.ImageProviderLocal:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}

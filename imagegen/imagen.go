package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// ImagenBackend 는 genai SDK 로 Google Imagen 모델을 호출한다.
type ImagenBackend struct {
	client *genai.Client
	model  string
}

func NewImagenBackend(ctx context.Context, apiKey, model string) (*ImagenBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &ImagenBackend{client: client, model: model}, nil
}

func (b *ImagenBackend) Name() string { return "imagen" }

func (b *ImagenBackend) Synthesize(ctx context.Context, prompt string) (string, error) {
	result, err := b.client.Models.GenerateImages(ctx, b.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	})
	if err != nil {
		return "", err
	}
	if result == nil || len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("imagen returned no image")
	}

	img := result.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		return "", fmt.Errorf("imagen returned an empty image")
	}
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.ImageBytes), nil
}

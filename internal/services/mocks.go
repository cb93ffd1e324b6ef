package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/readmegen/internal/models"
)

type (
	MockTextGenerator struct {
		mock.Mock
		provider string
		model    string
		ceiling  int
	}

	MockReadmeGenerator struct {
		mock.Mock
	}
)

func NewMockTextGenerator(provider, model string, ceiling int) *MockTextGenerator {
	return &MockTextGenerator{provider: provider, model: model, ceiling: ceiling}
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, opts models.GenerationOptions) (*models.GeneratedText, error) {
	args := m.Called(ctx, prompt, opts)
	if out := args.Get(0); out != nil {
		return out.(*models.GeneratedText), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTextGenerator) GetProviderName() string { return m.provider }
func (m *MockTextGenerator) GetModelName() string    { return m.model }
func (m *MockTextGenerator) MaxOutputTokens() int    { return m.ceiling }

func (m *MockReadmeGenerator) GenerateReadme(ctx context.Context, req models.GenerationRequest) (*models.GeneratedDocument, error) {
	args := m.Called(ctx, req)
	if doc := args.Get(0); doc != nil {
		return doc.(*models.GeneratedDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

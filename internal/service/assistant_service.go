// backend-go/internal/service/assistant_service.go
package service

import (
	"context"

	"github.com/stocklens/backend-go/internal/assistant"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

type AssistantService struct {
	repo   repository.DatasetRepository
	client *assistant.Client
}

func NewAssistantService(repo repository.DatasetRepository, client *assistant.Client) *AssistantService {
	return &AssistantService{repo: repo, client: client}
}

// Enabled reports whether an assistant backend is configured.
func (s *AssistantService) Enabled() bool {
	return s.client != nil
}

// Ask answers a free-text question about one dataset by handing the model
// the full per-product ledger plus precomputed totals.
func (s *AssistantService) Ask(ctx context.Context, datasetID int64, question string) (string, error) {
	if s.client == nil {
		return "", domain.ErrAssistantDisabled
	}
	if question == "" {
		return "", domain.NewValidationError("question must not be empty")
	}

	ds, err := s.repo.GetDataset(ctx, datasetID)
	if err != nil {
		return "", err
	}
	ledgers, err := s.repo.GetLedgers(ctx, datasetID, nil)
	if err != nil {
		return "", err
	}

	return s.client.Ask(ctx, assistant.BuildContext(*ds, ledgers), question)
}

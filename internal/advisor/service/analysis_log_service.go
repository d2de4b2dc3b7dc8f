package service

import (
	"context"

	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
)

const defaultAnalysisLogLimit = 20

// AnalysisLogService exposes stored AI analysis outcomes.
type AnalysisLogService interface {
	ListRecent(ctx context.Context, userID string) ([]entity.AnalysisLog, error)
}

type analysisLogService struct {
	analysisLogRepo repository.AnalysisLogRepository
}

func NewAnalysisLogService(analysisLogRepo repository.AnalysisLogRepository) AnalysisLogService {
	return &analysisLogService{analysisLogRepo: analysisLogRepo}
}

func (s *analysisLogService) ListRecent(ctx context.Context, userID string) ([]entity.AnalysisLog, error) {
	return s.analysisLogRepo.FindLatest(ctx, userID, defaultAnalysisLogLimit)
}

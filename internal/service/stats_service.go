package service

import (
	"context"

	"pulso/internal/models"
	"pulso/internal/repository"
)

// StatsService exposes the admin reporting views. Admin enforcement
// happens at the route level; the service itself is a thin façade over
// the aggregate queries.
type StatsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

func (s *StatsService) PostsPerAuthor(ctx context.Context) ([]models.PostsPorAutor, error) {
	return s.statsRepo.PostsPerAuthor(ctx)
}

func (s *StatsService) CommentsPerDay(ctx context.Context) ([]models.ComentariosPorDia, error) {
	return s.statsRepo.CommentsPerDay(ctx)
}

func (s *StatsService) TopPostsByComments(ctx context.Context) ([]models.TopPostPorComentarios, error) {
	return s.statsRepo.TopPostsByComments(ctx)
}

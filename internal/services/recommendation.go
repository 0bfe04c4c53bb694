package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/models"
)

// QueryRunnerFactory creates transactional units of work
type QueryRunnerFactory interface {
	CreateQueryRunner() database.Runner
}

// RecommendationService records coffee recommendations
type RecommendationService struct {
	runners   QueryRunnerFactory
	projector CatalogProjector
}

// NewRecommendationService creates a new recommendation service. A nil
// projector disables the graph projection.
func NewRecommendationService(runners QueryRunnerFactory, projector CatalogProjector) *RecommendationService {
	if projector == nil {
		projector = NopProjector{}
	}
	return &RecommendationService{
		runners:   runners,
		projector: projector,
	}
}

// Recommend increments the coffee's recommendation counter and appends a
// recommend_coffee event in one transaction. Either both become durable or
// neither does; on rollback coffee is restored and the returned error wraps
// ErrTransactionFailed. The runner is released exactly once on every path.
func (s *RecommendationService) Recommend(ctx context.Context, coffee *models.Coffee) (err error) {
	runner := s.runners.CreateQueryRunner()
	defer func() {
		if releaseErr := runner.Release(ctx); releaseErr != nil {
			log.Printf("Error releasing query runner: %v", releaseErr)
			err = errors.Join(err, releaseErr)
		}
	}()

	if err := runner.Connect(ctx); err != nil {
		return fmt.Errorf("failed to recommend coffee %d: %w", coffee.ID, err)
	}
	if err := runner.StartTransaction(ctx); err != nil {
		return fmt.Errorf("failed to recommend coffee %d: %w", coffee.ID, err)
	}

	previous := coffee.Recommendations
	event, err := s.recordRecommendation(ctx, runner.Manager(), coffee)
	if err == nil {
		err = runner.CommitTransaction(ctx)
	}
	if err != nil {
		coffee.Recommendations = previous
		if rollbackErr := runner.RollbackTransaction(ctx); rollbackErr != nil && !errors.Is(rollbackErr, database.ErrNoTransaction) {
			err = errors.Join(err, rollbackErr)
		}
		log.Printf("Recommendation of coffee %d rolled back: %v", coffee.ID, err)
		return fmt.Errorf("failed to recommend coffee %d: %w: %w", coffee.ID, ErrTransactionFailed, err)
	}

	if err := s.projector.ProjectEvent(ctx, *event); err != nil {
		log.Printf("Warning: Failed to project event %d to graph: %v", event.ID, err)
	}
	return nil
}

func (s *RecommendationService) recordRecommendation(ctx context.Context, manager database.Manager, coffee *models.Coffee) (*models.Event, error) {
	if err := manager.Increment(ctx, coffee, "recommendations", 1); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:    models.EventRecommendCoffee,
		Type:    models.EventTypeCoffee,
		Payload: datatypes.JSONMap{"coffeeId": coffee.ID},
	}
	if err := manager.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/yishak-cs/coffees/internal/models"
)

// DefaultSimilarLimit caps similarity results when no limit is given
const DefaultSimilarLimit = 10

// SimilarityService suggests coffees from the catalog graph
type SimilarityService struct {
	client GraphClient
}

// NewSimilarityService creates a new similarity service. A nil client
// makes every query fail with ErrGraphUnavailable.
func NewSimilarityService(client GraphClient) *SimilarityService {
	return &SimilarityService{client: client}
}

// Enabled reports whether a graph is configured
func (s *SimilarityService) Enabled() bool {
	return s.client != nil
}

// GetSimilarCoffees answers: "Which coffees share the most flavors with coffee X?"
// Ties are broken by how often the other coffee was recommended.
func (s *SimilarityService) GetSimilarCoffees(ctx context.Context, coffeeID uint, limit int) ([]models.Recommendation, error) {
	if s.client == nil {
		return nil, ErrGraphUnavailable
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	query := `
		MATCH (c:Coffee {db_id: $coffeeId})-[:HAS_FLAVOR]->(f:Flavor)<-[:HAS_FLAVOR]-(other:Coffee)
		WITH other, collect(f.name) AS shared
		OPTIONAL MATCH (e:Event {name: $recommendEvent})-[:ABOUT]->(other)
		WITH other, shared, count(e) AS recommended
		RETURN other.db_id AS coffee_id,
			   other.title AS title,
			   other.brand AS brand,
			   shared,
			   recommended
		ORDER BY size(shared) DESC, recommended DESC, coffee_id ASC
		LIMIT $limit
	`

	params := map[string]any{
		"coffeeId":       int64(coffeeID),
		"recommendEvent": models.EventRecommendCoffee,
		"limit":          int64(limit),
	}

	results, err := s.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get similar coffees: %w", err)
	}

	recommendations := make([]models.Recommendation, 0, len(results))
	for _, result := range results {
		id, _ := result["coffee_id"].(int64)
		title, _ := result["title"].(string)
		brand, _ := result["brand"].(string)
		recommended, _ := result["recommended"].(int64)

		var shared []string
		if names, ok := result["shared"].([]any); ok {
			for _, name := range names {
				if n, ok := name.(string); ok {
					shared = append(shared, n)
				}
			}
		}

		recommendations = append(recommendations, models.Recommendation{
			Coffee: models.Coffee{
				ID:              uint(id),
				Title:           title,
				Brand:           brand,
				Recommendations: int(recommended),
			},
			Score:        float64(len(shared)),
			SharedFlavor: shared,
			Explanation:  fmt.Sprintf("Shares %d flavors with coffee #%d", len(shared), coffeeID),
			Strategy:     "SharedFlavors",
		})
	}

	return recommendations, nil
}

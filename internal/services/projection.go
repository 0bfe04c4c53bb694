package services

import (
	"context"
	"fmt"

	"github.com/yishak-cs/coffees/internal/models"
)

// GraphClient runs Cypher queries against the catalog graph
type GraphClient interface {
	ExecuteWrite(ctx context.Context, query string, params map[string]any) error
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// CatalogProjector mirrors committed catalog changes into a secondary store
type CatalogProjector interface {
	ProjectCoffee(ctx context.Context, coffee models.Coffee) error
	RemoveCoffee(ctx context.Context, id uint) error
	ProjectEvent(ctx context.Context, event models.Event) error
}

// NopProjector discards every change
type NopProjector struct{}

func (NopProjector) ProjectCoffee(context.Context, models.Coffee) error { return nil }
func (NopProjector) RemoveCoffee(context.Context, uint) error           { return nil }
func (NopProjector) ProjectEvent(context.Context, models.Event) error   { return nil }

// GraphProjector keeps (:Coffee)-[:HAS_FLAVOR]->(:Flavor) and
// (:Event)-[:ABOUT]->(:Coffee) in sync with the relational store
type GraphProjector struct {
	client GraphClient
}

// NewGraphProjector creates a projector writing through client
func NewGraphProjector(client GraphClient) *GraphProjector {
	return &GraphProjector{client: client}
}

// ProjectCoffee upserts the coffee node and replaces its flavor edges
func (p *GraphProjector) ProjectCoffee(ctx context.Context, coffee models.Coffee) error {
	query := `
		MERGE (c:Coffee {db_id: $coffeeId})
		SET c.title = $title,
			c.brand = $brand,
			c.recommendations = $recommendations
		WITH c
		OPTIONAL MATCH (c)-[old:HAS_FLAVOR]->(:Flavor)
		DELETE old
		WITH DISTINCT c
		UNWIND $flavors AS flavor
		MERGE (f:Flavor {name: flavor})
		MERGE (c)-[:HAS_FLAVOR]->(f)
	`

	flavors := make([]string, 0, len(coffee.Flavors))
	for _, flavor := range coffee.Flavors {
		flavors = append(flavors, flavor.Name)
	}

	params := map[string]any{
		"coffeeId":        int64(coffee.ID),
		"title":           coffee.Title,
		"brand":           coffee.Brand,
		"recommendations": int64(coffee.Recommendations),
		"flavors":         flavors,
	}

	if err := p.client.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("failed to project coffee %d: %w", coffee.ID, err)
	}
	return nil
}

// RemoveCoffee deletes the coffee node and its edges
func (p *GraphProjector) RemoveCoffee(ctx context.Context, id uint) error {
	query := `
		MATCH (c:Coffee {db_id: $coffeeId})
		DETACH DELETE c
	`

	if err := p.client.ExecuteWrite(ctx, query, map[string]any{"coffeeId": int64(id)}); err != nil {
		return fmt.Errorf("failed to remove coffee %d: %w", id, err)
	}
	return nil
}

// ProjectEvent records the event and links it to the coffee named in its
// payload. Projecting the same event twice is a no-op.
func (p *GraphProjector) ProjectEvent(ctx context.Context, event models.Event) error {
	query := `
		MERGE (e:Event {db_id: $eventId})
		SET e.name = $name, e.type = $type
		WITH e
		MATCH (c:Coffee {db_id: $coffeeId})
		MERGE (e)-[:ABOUT]->(c)
	`

	coffeeID, ok := payloadID(event.Payload, "coffeeId")
	if !ok {
		return fmt.Errorf("event %d has no coffeeId in its payload", event.ID)
	}

	params := map[string]any{
		"eventId":  int64(event.ID),
		"name":     event.Name,
		"type":     event.Type,
		"coffeeId": coffeeID,
	}

	if err := p.client.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("failed to project event %d: %w", event.ID, err)
	}
	return nil
}

// payloadID reads an integer id from a JSON payload, which may hold it as
// a Go integer before storage or as a json.Number after a round trip
func payloadID(payload map[string]any, key string) (int64, bool) {
	switch v := payload[key].(type) {
	case uint:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case interface{ Int64() (int64, error) }:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

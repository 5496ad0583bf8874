package main

import (
	"context"
	"log"

	"github.com/adelinebrd/chasse/internal/adapters/postgres"
	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/config"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// Seeds a demo trail through central Paris with its POIs and quizzes,
// for local development and screenshots.
func main() {
	cfg, err := config.Load("chasse-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	trailRepo := postgres.NewTrailRepo(db)
	poiRepo := postgres.NewPOIRepo(db)
	quizRepo := postgres.NewQuizRepo(db)
	trails := usecases.NewTrailService(trailRepo, nil, nil)

	path := geo.EncodeLineString([]geo.GeoPoint{
		{Lat: 48.8606, Lon: 2.3376}, // Louvre pyramid
		{Lat: 48.8583, Lon: 2.3417}, // Pont des Arts
		{Lat: 48.8554, Lon: 2.3451}, // Sainte-Chapelle
		{Lat: 48.8530, Lon: 2.3499}, // Notre-Dame
		{Lat: 48.8510, Lon: 2.3480}, // Quartier Latin
		{Lat: 48.8462, Lon: 2.3464}, // Pantheon
	})
	end := geo.GeoPoint{Lat: 48.8462, Lon: 2.3464}

	trail, err := trails.Create(ctx, &domain.Trail{
		Slug:        "paris-rive-gauche",
		Name:        "Paris Rive Gauche",
		Description: "Du Louvre au Panthéon par l'île de la Cité.",
		Theme:       "histoire",
		Start:       geo.GeoPoint{Lat: 48.8606, Lon: 2.3376},
		End:         &end,
		Path:        &path,
	})
	if err != nil {
		log.Fatalf("seed trail: %v", err)
	}
	log.Printf("trail %s (%s) — %.2f km", trail.Name, trail.ID, trail.DistanceKm)

	pois := []domain.POI{
		{
			TrailID:  trail.ID,
			Name:     "Pyramide du Louvre",
			Kind:     "monument",
			Location: geo.GeoPoint{Lat: 48.8606, Lon: 2.3376},
			Position: 0,
		},
		{
			TrailID:  trail.ID,
			Name:     "Sainte-Chapelle",
			Kind:     "monument",
			Location: geo.GeoPoint{Lat: 48.8554, Lon: 2.3451},
			Position: 1,
		},
		{
			TrailID:  trail.ID,
			Name:     "Notre-Dame de Paris",
			Kind:     "monument",
			Location: geo.GeoPoint{Lat: 48.8530, Lon: 2.3499},
			Position: 2,
		},
		{
			TrailID:  trail.ID,
			Name:     "Panthéon",
			Kind:     "monument",
			Location: geo.GeoPoint{Lat: 48.8462, Lon: 2.3464},
			Position: 3,
			Metadata: map[string]any{"cache": true},
		},
	}
	if err := poiRepo.UpsertBatch(ctx, pois); err != nil {
		log.Fatalf("seed pois: %v", err)
	}
	log.Printf("%d pois seeded", len(pois))

	// Quizzes hang off persisted POIs, so re-read to get their ids.
	saved, err := poiRepo.ListByTrail(ctx, trail.ID)
	if err != nil {
		log.Fatalf("list pois: %v", err)
	}
	for _, p := range saved {
		if p.Name != "Notre-Dame de Paris" {
			continue
		}
		quiz := &domain.Quiz{
			POIID:    p.ID,
			Question: "En quelle année la construction de Notre-Dame a-t-elle commencé ?",
			Choices:  []string{"1063", "1163", "1263", "1363"},
			Answer:   1,
			Points:   20,
		}
		if err := quizRepo.Create(ctx, quiz); err != nil {
			log.Fatalf("seed quiz: %v", err)
		}
		log.Printf("quiz seeded on %s", p.Name)
	}

	log.Println("seed complete")
}

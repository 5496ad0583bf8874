package http

import (
	"github.com/nats-io/nats.go"

	"github.com/adelinebrd/chasse/internal/adapters/postgres"
	"github.com/adelinebrd/chasse/internal/adapters/valkey"
	"github.com/adelinebrd/chasse/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Trails      *usecases.TrailService
	POIs        *usecases.POIService
	Quizzes     *usecases.QuizService
	Hunts       *usecases.HuntService
	Badges      *usecases.BadgeService
	Leaderboard *usecases.LeaderboardService
	Editor      *usecases.EditorService
	Publish     *usecases.PublishService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}

package postgres

import (
	"context"
	"fmt"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// QuizRepo implements ports.QuizRepository.
type QuizRepo struct {
	db *DB
}

func NewQuizRepo(db *DB) *QuizRepo {
	return &QuizRepo{db: db}
}

func (r *QuizRepo) Create(ctx context.Context, q *domain.Quiz) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO quizzes (poi_id, question, choices, answer, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, q.POIID, q.Question, q.Choices, q.Answer, q.Points).Scan(&q.ID, &q.CreatedAt)
}

func (r *QuizRepo) Update(ctx context.Context, q *domain.Quiz) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE quizzes SET question = $2, choices = $3, answer = $4, points = $5
		WHERE id = $1
	`, q.ID, q.Question, q.Choices, q.Answer, q.Points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quiz %s not found", q.ID)
	}
	return nil
}

func (r *QuizRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quiz %s not found", id)
	}
	return nil
}

func (r *QuizRepo) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var q domain.Quiz
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, poi_id, question, choices, answer, points, created_at
		FROM quizzes WHERE id = $1
	`, id).Scan(&q.ID, &q.POIID, &q.Question, &q.Choices, &q.Answer, &q.Points, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepo) ListByPOI(ctx context.Context, poiID string) ([]domain.Quiz, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, poi_id, question, choices, answer, points, created_at
		FROM quizzes WHERE poi_id = $1
		ORDER BY created_at
	`, poiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var q domain.Quiz
		if err := rows.Scan(&q.ID, &q.POIID, &q.Question, &q.Choices, &q.Answer, &q.Points, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"game-arena/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionSource reads module question sets from the game_questions table.
type QuestionSource struct {
	pool *pgxpool.Pool
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{pool: pool}
}

func (s *QuestionSource) FetchQuestions(ctx context.Context, moduleID int64) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, question,
		       COALESCE(choice_a, ''), COALESCE(choice_b, ''), COALESCE(choice_c, ''), COALESCE(choice_d, ''),
		       correct_answer
		FROM game_questions
		WHERE module_id = $1
		ORDER BY position, id`, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q  domain.Question
			id string
		)
		if err := rows.Scan(&id, &q.Question, &q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.ChoiceD, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.ID = domain.QuestionID(id)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return questions, nil
}

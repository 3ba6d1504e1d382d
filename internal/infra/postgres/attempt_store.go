package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

const attemptColumns = `id, quiz_id, student_id, answers, score, start_time, end_time, suspicious_events, created_at, updated_at`

// AttemptStore keeps attempts as rows with JSONB answers and event log.
// Submission and event appends are single UPDATE statements, so concurrent
// loggers never lose events and guarded submissions are atomic.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Insert(ctx context.Context, attempt domain.Attempt) (string, error) {
	answers, err := json.Marshal(nonNilAnswers(attempt.Answers))
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	events := attempt.SuspiciousEvents
	if events == nil {
		events = []domain.SuspiciousEvent{}
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("marshal events: %w", err)
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO attempts (`+attemptColumns+`) VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8::jsonb, $9, $10)`,
		id, attempt.QuizID, attempt.StudentID, string(answers), attempt.Score,
		attempt.StartTime, attempt.EndTime, string(eventsJSON), attempt.CreatedAt, attempt.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert attempt: %w", err)
	}
	return id, nil
}

func (s *AttemptStore) FindByID(ctx context.Context, id string) (domain.Attempt, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id=$1`, id)
	attempt, err := scanAttempt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return attempt, err
}

func (s *AttemptStore) Submit(ctx context.Context, id string, sub domain.Submission, onlyIfActive bool) error {
	answers, err := json.Marshal(nonNilAnswers(sub.Answers))
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE attempts SET answers=$2::jsonb, score=$3, end_time=$4, updated_at=$4
		 WHERE id=$1 AND (NOT $5 OR end_time IS NULL)`,
		id, string(answers), sub.Score, sub.EndTime, onlyIfActive)
	if err != nil {
		return fmt.Errorf("submit attempt: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadySubmitted
}

func (s *AttemptStore) AppendEvent(ctx context.Context, id string, event domain.SuspiciousEvent, maxEvents int) (int, error) {
	payload, err := json.Marshal([]domain.SuspiciousEvent{event})
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}
	var n int
	err = s.pool.QueryRow(ctx,
		`UPDATE attempts SET suspicious_events = suspicious_events || $2::jsonb, updated_at=$3
		 WHERE id=$1 AND ($4 <= 0 OR jsonb_array_length(suspicious_events) < $4)
		 RETURNING jsonb_array_length(suspicious_events)`,
		id, string(payload), event.Time, maxEvents).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := s.FindByID(ctx, id); err != nil {
			return 0, err
		}
		return 0, domain.ErrEventLimit
	}
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return n, nil
}

func (s *AttemptStore) List(ctx context.Context, filter app.AttemptFilter, limit int) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE ($1 = '' OR quiz_id = $1) AND ($2 = '' OR student_id = $2) AND (NOT $3 OR end_time IS NULL)
		 ORDER BY start_time, id LIMIT $4`,
		filter.QuizID, filter.StudentID, filter.ActiveOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Attempt, 0)
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, attempt)
	}
	return out, rows.Err()
}

func (s *AttemptStore) Count(ctx context.Context, filter app.AttemptFilter) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM attempts
		 WHERE ($1 = '' OR quiz_id = $1) AND ($2 = '' OR student_id = $2) AND (NOT $3 OR end_time IS NULL)`,
		filter.QuizID, filter.StudentID, filter.ActiveOnly).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

func scanAttempt(row pgx.Row) (domain.Attempt, error) {
	var (
		a          domain.Attempt
		answersRaw []byte
		eventsRaw  []byte
		endTime    *time.Time
	)
	if err := row.Scan(&a.ID, &a.QuizID, &a.StudentID, &answersRaw, &a.Score,
		&a.StartTime, &endTime, &eventsRaw, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Attempt{}, err
		}
		return domain.Attempt{}, fmt.Errorf("scan attempt: %w", err)
	}
	a.EndTime = endTime
	if err := json.Unmarshal(answersRaw, &a.Answers); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(eventsRaw, &a.SuspiciousEvents); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal events: %w", err)
	}
	return a, nil
}

func nonNilAnswers(a domain.Answers) domain.Answers {
	if a == nil {
		return domain.Answers{}
	}
	return a
}

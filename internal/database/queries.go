package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a row does not exist or is owned by a
// different user.
var ErrNotFound = errors.New("record not found")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// query methods run standalone or inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is the subset of the pool needed to open transactions.
type beginner interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries wraps hand-written SQL for the meal/exercise/summary tables.
type Queries struct {
	db   querier
	pool beginner
}

func New(pool beginner) *Queries {
	return &Queries{db: pool, pool: pool}
}

// WithTx returns a Queries bound to an open transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

/* =================================================================================
								MEAL ENTRIES
=================================================================================*/

const mealColumns = `id, user_id, name, calories, protein, fat, carbs, unit, source, corrected, eaten_at, created_at, updated_at`

func scanMeal(row pgx.Row) (MealEntry, error) {
	var m MealEntry
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Calories, &m.Protein, &m.Fat, &m.Carbs,
		&m.Unit, &m.Source, &m.Corrected, &m.EatenAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return m, ErrNotFound
	}
	return m, err
}

// CreateMealEntry inserts a meal row and recomputes that day's summary.
// Both statements run in one transaction: the row must never be committed
// with a stale summary, and a failed recompute must not leave a row behind
// for a client retry to duplicate.
func (q *Queries) CreateMealEntry(ctx context.Context, m MealEntry) (MealEntry, error) {
	m.ID = uuid.New().String()

	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return MealEntry{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	qtx := q.WithTx(tx)

	row := qtx.db.QueryRow(ctx, `
		INSERT INTO meal_entries (id, user_id, name, calories, protein, fat, carbs, unit, source, corrected, eaten_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+mealColumns,
		m.ID, m.UserID, m.Name, m.Calories, m.Protein, m.Fat, m.Carbs, m.Unit, m.Source, m.Corrected, m.EatenAt)

	created, err := scanMeal(row)
	if err != nil {
		return MealEntry{}, fmt.Errorf("insert meal: %w", err)
	}
	if err := qtx.RecomputeDailySummary(ctx, created.UserID, created.EatenAt); err != nil {
		return MealEntry{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return MealEntry{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (q *Queries) GetMealEntry(ctx context.Context, userID, id string) (MealEntry, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+mealColumns+` FROM meal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	return scanMeal(row)
}

func (q *Queries) ListMealEntriesByDay(ctx context.Context, userID string, day time.Time) ([]MealEntry, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+mealColumns+` FROM meal_entries
		WHERE user_id = $1 AND eaten_at::date = $2::date
		ORDER BY eaten_at`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var out []MealEntry
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateMealEntry updates an owned row in place and recomputes the
// affected day's summary, atomically with the update.
func (q *Queries) UpdateMealEntry(ctx context.Context, m MealEntry) (MealEntry, error) {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return MealEntry{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	qtx := q.WithTx(tx)

	row := qtx.db.QueryRow(ctx, `
		UPDATE meal_entries
		SET name = $3, calories = $4, protein = $5, fat = $6, carbs = $7,
		    unit = $8, corrected = $9, eaten_at = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+mealColumns,
		m.ID, m.UserID, m.Name, m.Calories, m.Protein, m.Fat, m.Carbs, m.Unit, m.Corrected, m.EatenAt)

	updated, err := scanMeal(row)
	if err != nil {
		return MealEntry{}, err
	}
	if err := qtx.RecomputeDailySummary(ctx, updated.UserID, updated.EatenAt); err != nil {
		return MealEntry{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return MealEntry{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteMealEntry removes an owned row and recomputes the affected day's
// summary, atomically with the delete.
func (q *Queries) DeleteMealEntry(ctx context.Context, userID, id string) error {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	qtx := q.WithTx(tx)

	var eatenAt time.Time
	err = qtx.db.QueryRow(ctx,
		`DELETE FROM meal_entries WHERE id = $1 AND user_id = $2 RETURNING eaten_at`,
		id, userID).Scan(&eatenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if err := qtx.RecomputeDailySummary(ctx, userID, eatenAt); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

/* =================================================================================
								EXERCISE ENTRIES
=================================================================================*/

const exerciseColumns = `id, user_id, name, calories_burned, duration_minutes, type, notes, performed_at, created_at, updated_at`

func scanExercise(row pgx.Row) (ExerciseEntry, error) {
	var e ExerciseEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.CaloriesBurned, &e.DurationMinutes,
		&e.Type, &e.Notes, &e.PerformedAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (q *Queries) CreateExerciseEntry(ctx context.Context, e ExerciseEntry) (ExerciseEntry, error) {
	e.ID = uuid.New().String()
	row := q.db.QueryRow(ctx, `
		INSERT INTO exercise_entries (id, user_id, name, calories_burned, duration_minutes, type, notes, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+exerciseColumns,
		e.ID, e.UserID, e.Name, e.CaloriesBurned, e.DurationMinutes, e.Type, e.Notes, e.PerformedAt)
	created, err := scanExercise(row)
	if err != nil {
		return ExerciseEntry{}, fmt.Errorf("insert exercise: %w", err)
	}
	return created, nil
}

func (q *Queries) ListExerciseEntriesByDay(ctx context.Context, userID string, day time.Time) ([]ExerciseEntry, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+exerciseColumns+` FROM exercise_entries
		WHERE user_id = $1 AND performed_at::date = $2::date
		ORDER BY performed_at`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []ExerciseEntry
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateExerciseEntry(ctx context.Context, e ExerciseEntry) (ExerciseEntry, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE exercise_entries
		SET name = $3, calories_burned = $4, duration_minutes = $5, type = $6, notes = $7,
		    performed_at = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+exerciseColumns,
		e.ID, e.UserID, e.Name, e.CaloriesBurned, e.DurationMinutes, e.Type, e.Notes, e.PerformedAt)
	return scanExercise(row)
}

func (q *Queries) DeleteExerciseEntry(ctx context.Context, userID, id string) error {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM exercise_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

/* =================================================================================
								DAILY SUMMARY
=================================================================================*/

// RecomputeDailySummary rebuilds one user-day summary row from that day's
// meal rows in a single aggregate upsert.
func (q *Queries) RecomputeDailySummary(ctx context.Context, userID string, day time.Time) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_summaries (user_id, day, total_calories, total_protein, total_fat, total_carbs, meal_count, updated_at)
		SELECT $1, $2::date,
		       COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
		       COALESCE(SUM(fat), 0), COALESCE(SUM(carbs), 0), COUNT(*), now()
		FROM meal_entries
		WHERE user_id = $1 AND eaten_at::date = $2::date
		ON CONFLICT (user_id, day) DO UPDATE
		SET total_calories = EXCLUDED.total_calories,
		    total_protein  = EXCLUDED.total_protein,
		    total_fat      = EXCLUDED.total_fat,
		    total_carbs    = EXCLUDED.total_carbs,
		    meal_count     = EXCLUDED.meal_count,
		    updated_at     = now()`, userID, day)
	if err != nil {
		return fmt.Errorf("recompute daily summary: %w", err)
	}
	return nil
}

func (q *Queries) GetDailySummary(ctx context.Context, userID string, day time.Time) (DailySummary, error) {
	var s DailySummary
	err := q.db.QueryRow(ctx, `
		SELECT user_id, day, total_calories, total_protein, total_fat, total_carbs, meal_count, updated_at
		FROM daily_summaries WHERE user_id = $1 AND day = $2::date`, userID, day).
		Scan(&s.UserID, &s.Day, &s.TotalCalories, &s.TotalProtein, &s.TotalFat, &s.TotalCarbs, &s.MealCount, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DailySummary{}, ErrNotFound
	}
	return s, err
}

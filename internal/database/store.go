package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the database operations used by the application.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetUser returns the stored profile row. Returns nil, nil if there is none.
	GetUser(ctx context.Context) (*User, error)

	// UpsertUser updates the existing profile row or inserts one, inside a
	// single transaction. On success user.ID holds the row key.
	UpsertUser(ctx context.Context, user *User) (Operation, error)

	// SaveMeal inserts a generated meal plan.
	SaveMeal(ctx context.Context, meal *Meal) error

	// GetMeals returns the meals of a user in insertion order.
	GetMeals(ctx context.Context, userID int64) ([]Meal, error)

	// DeleteMeals removes every meal of a user.
	DeleteMeals(ctx context.Context, userID int64) error

	// SaveShoppingList replaces the shopping list of a user.
	SaveShoppingList(ctx context.Context, list *ShoppingList) error

	// ReplaceGuide replaces every meal and the shopping list of a user inside
	// a single transaction. On failure the previous guide is left in place.
	ReplaceGuide(ctx context.Context, userID int64, meals []string, list string) error

	// GetShoppingList returns the shopping list of a user. Returns nil, nil if there is none.
	GetShoppingList(ctx context.Context, userID int64) (*ShoppingList, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

const userColumns = `ID, Nome, Idade, Altura, Peso, Genero, NivelDeAtividade, Gordura, Calorias,
	HistoricoMedico, Intolerancias, ExcluirAlimentos`

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetUser(ctx context.Context) (*User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var user User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM usuario ORDER BY ID LIMIT 1`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user row found")
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user row", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.logger.DebugContext(ctx, "Retrieved user row", "id", user.ID)
	return &user, nil
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) (Operation, error) {
	if user == nil {
		return "", fmt.Errorf("cannot save nil user")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	var existingID int64
	err = tx.GetContext(ctx, &existingID, `SELECT ID FROM usuario ORDER BY ID LIMIT 1`)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to select existing user: %w", err)
	}

	op := OpInserted
	if exists {
		op = OpUpdated
		user.ID = existingID
		query := `
			UPDATE usuario SET
				Nome = :Nome,
				Idade = :Idade,
				Altura = :Altura,
				Peso = :Peso,
				Genero = :Genero,
				NivelDeAtividade = :NivelDeAtividade,
				Gordura = :Gordura,
				Calorias = :Calorias,
				HistoricoMedico = :HistoricoMedico,
				Intolerancias = :Intolerancias,
				ExcluirAlimentos = :ExcluirAlimentos
			WHERE ID = :ID
		`
		if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
			return op, fmt.Errorf("failed to update user %d: %w", user.ID, err)
		}
	} else {
		query := `
			INSERT INTO usuario (
				Nome, Idade, Altura, Peso, Genero, NivelDeAtividade, Gordura, Calorias,
				HistoricoMedico, Intolerancias, ExcluirAlimentos
			) VALUES (
				:Nome, :Idade, :Altura, :Peso, :Genero, :NivelDeAtividade, :Gordura, :Calorias,
				:HistoricoMedico, :Intolerancias, :ExcluirAlimentos
			)
		`
		result, err := tx.NamedExecContext(ctx, query, user)
		if err != nil {
			return op, fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			s.logger.WarnContext(ctx, "Could not get last insert ID for user", "error", err)
		} else {
			user.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return op, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "User saved successfully", "operation", op, "id", user.ID)
	return op, nil
}

func (s *sqlxStore) SaveMeal(ctx context.Context, meal *Meal) error {
	if meal == nil {
		return fmt.Errorf("cannot save nil meal")
	}

	result, err := s.db.NamedExecContext(ctx,
		`INSERT INTO refeicoes (usuario_id, json_texto) VALUES (:usuario_id, :json_texto)`, meal)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving meal", "user_id", meal.UserID, "error", err)
		return fmt.Errorf("failed to save meal for user %d: %w", meal.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		meal.ID = id
	}

	s.logger.DebugContext(ctx, "Meal saved successfully", "user_id", meal.UserID, "meal_id", meal.ID)
	return nil
}

func (s *sqlxStore) GetMeals(ctx context.Context, userID int64) ([]Meal, error) {
	var meals []Meal
	err := s.db.SelectContext(ctx, &meals,
		`SELECT ID, usuario_id, json_texto FROM refeicoes WHERE usuario_id = ? ORDER BY ID`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting meals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get meals for user %d: %w", userID, err)
	}
	return meals, nil
}

func (s *sqlxStore) DeleteMeals(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM refeicoes WHERE usuario_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting meals", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete meals for user %d: %w", userID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted meals", "user_id", userID, "count", count)
	return nil
}

func (s *sqlxStore) SaveShoppingList(ctx context.Context, list *ShoppingList) error {
	if list == nil {
		return fmt.Errorf("cannot save nil shopping list")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lista WHERE usuario_id = ?`, list.UserID); err != nil {
		return fmt.Errorf("failed to clear shopping list for user %d: %w", list.UserID, err)
	}
	result, err := tx.NamedExecContext(ctx,
		`INSERT INTO lista (usuario_id, json_ingredientes) VALUES (:usuario_id, :json_ingredientes)`, list)
	if err != nil {
		return fmt.Errorf("failed to save shopping list for user %d: %w", list.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		list.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Shopping list saved successfully", "user_id", list.UserID, "list_id", list.ID)
	return nil
}

func (s *sqlxStore) ReplaceGuide(ctx context.Context, userID int64, meals []string, list string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refeicoes WHERE usuario_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear meals for user %d: %w", userID, err)
	}
	for _, text := range meals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO refeicoes (usuario_id, json_texto) VALUES (?, ?)`, userID, text); err != nil {
			return fmt.Errorf("failed to save meal for user %d: %w", userID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lista WHERE usuario_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear shopping list for user %d: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lista (usuario_id, json_ingredientes) VALUES (?, ?)`, userID, list); err != nil {
		return fmt.Errorf("failed to save shopping list for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Guide replaced successfully", "user_id", userID, "meals", len(meals))
	return nil
}

func (s *sqlxStore) GetShoppingList(ctx context.Context, userID int64) (*ShoppingList, error) {
	var list ShoppingList
	err := s.db.GetContext(ctx, &list,
		`SELECT ID, usuario_id, json_ingredientes FROM lista WHERE usuario_id = ? ORDER BY ID DESC LIMIT 1`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting shopping list", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get shopping list for user %d: %w", userID, err)
	}
	return &list, nil
}

// RunSQLMaintenance executes VACUUM, which SQLite only allows outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

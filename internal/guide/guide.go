// Package guide generates the weekly meal guide: one completion per day from
// the current profile, then a shopping list built from the resulting meals.
package guide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/nutriplan/internal/database"
	"github.com/edgard/nutriplan/internal/openai"
	"github.com/edgard/nutriplan/internal/state"
)

const (
	DefaultDays        = 7
	DefaultMealTokens  = 200
	DefaultListTokens  = 1000
	DefaultConcurrency = 3
)

var (
	// ErrNoContent is returned when a completion response carries no message
	// content, typically because the API answered with an error payload.
	ErrNoContent = errors.New("completion returned no content")

	// ErrNoProfile is returned when the shared state holds no saved profile.
	ErrNoProfile = errors.New("no saved profile to generate a guide for")

	// ErrMissingAPIKey is returned when the service has no API key.
	ErrMissingAPIKey = errors.New("openai api key is not configured")
)

// Config sizes a generation run. Zero values take the package defaults.
type Config struct {
	APIKey      string
	Days        int
	MealTokens  int
	ListTokens  int
	Concurrency int
	// Timeout bounds each completion request. Zero means no per-request limit.
	Timeout time.Duration
	// RequestOptions are passed to every RequestBuilder.
	RequestOptions []openai.Option
}

// Plan is a generated or stored guide.
type Plan struct {
	Meals        []string
	ShoppingList string
}

// Service generates and reads meal guides for the profile in the shared state.
type Service struct {
	store  database.Store
	state  *state.Profile
	cfg    Config
	logger *slog.Logger
}

func NewService(store database.Store, st *state.Profile, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.MealTokens <= 0 {
		cfg.MealTokens = DefaultMealTokens
	}
	if cfg.ListTokens <= 0 {
		cfg.ListTokens = DefaultListTokens
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Service{
		store:  store,
		state:  st,
		cfg:    cfg,
		logger: logger.With("component", "guide"),
	}
}

// Generate requests a meal plan for every day and a shopping list derived
// from them, then replaces the stored guide with both. The stored guide is
// only replaced once every completion has succeeded.
func (s *Service) Generate(ctx context.Context) (*Plan, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	userID := s.state.ID()
	if userID == 0 {
		return nil, ErrNoProfile
	}

	start := time.Now()
	prompt := MealPlanPrompt(s.state.Snapshot())
	s.logger.InfoContext(ctx, "Generating meal guide", "user_id", userID, "days", s.cfg.Days, "concurrency", s.cfg.Concurrency)

	meals := make([]string, s.cfg.Days)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for day := range meals {
		g.Go(func() error {
			content, err := s.complete(gCtx, prompt, s.cfg.MealTokens)
			if err != nil {
				return fmt.Errorf("day %d: %w", day+1, err)
			}
			meals[day] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate meals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to generate meals: %w", err)
	}

	list, err := s.complete(ctx, ShoppingListPrompt(meals), s.cfg.ListTokens)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate shopping list", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to generate shopping list: %w", err)
	}

	if err := s.store.ReplaceGuide(ctx, userID, meals, list); err != nil {
		return nil, fmt.Errorf("failed to store guide: %w", err)
	}

	s.logger.InfoContext(ctx, "Meal guide generated", "user_id", userID, "meals", len(meals), "duration", time.Since(start))
	return &Plan{Meals: meals, ShoppingList: list}, nil
}

// Current returns the stored guide of the profile in the shared state. A
// profile without a stored guide yields an empty plan.
func (s *Service) Current(ctx context.Context) (*Plan, error) {
	userID := s.state.ID()
	if userID == 0 {
		return nil, ErrNoProfile
	}

	rows, err := s.store.GetMeals(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Meals: make([]string, 0, len(rows))}
	for _, m := range rows {
		plan.Meals = append(plan.Meals, m.Text)
	}

	list, err := s.store.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list != nil {
		plan.ShoppingList = list.Ingredients
	}
	return plan, nil
}

func (s *Service) complete(ctx context.Context, prompt string, tokens int) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	raw, err := openai.NewRequestBuilder(s.cfg.RequestOptions...).
		WithAPIKey(s.cfg.APIKey).
		WithUserMessage(prompt).
		WithMaxTokens(tokens).
		Execute(ctx)
	if err != nil {
		return "", err
	}

	content, err := openai.FirstContent(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoContent, err)
	}
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}

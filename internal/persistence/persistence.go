// Package persistence moves the shared profile state in and out of the
// relational store. Its operations never fail from the caller's point of
// view: store faults are logged, counted and handed to an optional hook so
// that the UI flow can go on.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgard/nutriplan/internal/database"
	"github.com/edgard/nutriplan/internal/state"
)

// Operation names reported to the fault hook and the metrics.
const (
	OpUpsert = "upsert"
	OpLoad   = "load"
)

// FaultHook receives every swallowed store failure.
type FaultHook func(op string, err error)

// Gateway implements the upsert and load flows over a database.Store.
type Gateway struct {
	store   database.Store
	state   *state.Profile
	logger  *slog.Logger
	onFault FaultHook
	ops     *prometheus.CounterVec
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithFaultHook registers fn to be called with every swallowed failure.
func WithFaultHook(fn FaultHook) Option {
	return func(g *Gateway) { g.onFault = fn }
}

// WithRegisterer registers the gateway counters on reg. A collector that is
// already registered there is reused.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(g *Gateway) {
		if reg == nil {
			return
		}
		if err := reg.Register(g.ops); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					g.ops = existing
					return
				}
			}
			g.logger.Warn("Could not register persistence metrics", "error", err)
		}
	}
}

// New returns a Gateway bound to store and the shared profile state.
func New(store database.Store, st *state.Profile, logger *slog.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := &Gateway{
		store:  store,
		state:  st,
		logger: logger.With("component", "persistence"),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutriplan",
			Subsystem: "persistence",
			Name:      "operations_total",
			Help:      "Profile persistence operations by outcome.",
		}, []string{"op", "result"}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Upsert writes the shared state to the store, updating the existing row or
// inserting a new one.
func (g *Gateway) Upsert(ctx context.Context) {
	msg := "Erro ao inserir/atualizar dados do usuário"
	defer func() {
		if r := recover(); r != nil {
			g.fault(ctx, OpUpsert, msg, fmt.Errorf("store panic: %v", r))
		}
	}()

	snap := g.state.Snapshot()
	user := toUser(snap)

	op, err := g.store.UpsertUser(ctx, &user)
	if err != nil {
		switch op {
		case database.OpInserted:
			msg = "Erro ao inserir dados do usuário"
		case database.OpUpdated:
			msg = "Erro ao atualizar dados do usuário"
		default:
			msg = "Erro ao consultar dados do usuário"
		}
		g.fault(ctx, OpUpsert, msg, err)
		return
	}

	g.state.SetID(user.ID)
	if op == database.OpUpdated {
		g.logger.InfoContext(ctx, "Atualizado no banco", "id", user.ID)
	} else {
		g.logger.InfoContext(ctx, "Inserido no banco", "id", user.ID)
	}
	g.logger.InfoContext(ctx, "Dados do usuário inseridos/atualizados com sucesso.")
	g.ops.WithLabelValues(OpUpsert, string(op)).Inc()
}

// Load copies the stored row into the shared state. When there is no row, or
// the store fails, the state is left untouched.
func (g *Gateway) Load(ctx context.Context) {
	const msg = "Erro ao carregar dados do usuário"
	defer func() {
		if r := recover(); r != nil {
			g.fault(ctx, OpLoad, msg, fmt.Errorf("store panic: %v", r))
		}
	}()

	user, err := g.store.GetUser(ctx)
	if err != nil {
		g.fault(ctx, OpLoad, msg, err)
		return
	}
	if user == nil {
		g.logger.InfoContext(ctx, "Nenhum usuário encontrado no banco de dados.")
		g.ops.WithLabelValues(OpLoad, "not_found").Inc()
		return
	}

	g.state.Replace(toFields(user))
	g.logger.InfoContext(ctx, "Selecionado os dados", "id", user.ID)
	g.ops.WithLabelValues(OpLoad, "loaded").Inc()
}

func (g *Gateway) fault(ctx context.Context, op, msg string, err error) {
	g.logger.ErrorContext(ctx, msg, "error", err)
	g.ops.WithLabelValues(op, "error").Inc()
	if g.onFault != nil {
		g.onFault(op, err)
	}
}

func toUser(f state.Fields) database.User {
	return database.User{
		ID:             f.ID,
		Name:           f.Name,
		Age:            f.Age,
		Height:         f.Height,
		Weight:         f.Weight,
		Gender:         f.Gender,
		ActivityLevel:  f.ActivityLevel,
		BodyFat:        f.BodyFat,
		Calories:       f.Calories,
		MedicalHistory: f.MedicalHistory,
		Intolerances:   f.Intolerances,
		ExcludedFoods:  f.ExcludedFoods,
	}
}

func toFields(u *database.User) state.Fields {
	return state.Fields{
		ID:             u.ID,
		Name:           u.Name,
		Age:            u.Age,
		Height:         u.Height,
		Weight:         u.Weight,
		Gender:         u.Gender,
		ActivityLevel:  u.ActivityLevel,
		BodyFat:        u.BodyFat,
		Calories:       u.Calories,
		MedicalHistory: u.MedicalHistory,
		Intolerances:   u.Intolerances,
		ExcludedFoods:  u.ExcludedFoods,
	}
}

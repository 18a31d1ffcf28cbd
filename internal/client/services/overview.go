package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"golang.org/x/sync/errgroup"
)

// TopRestaurantsLimit is how many restaurants the overview ranks.
const TopRestaurantsLimit = 5

// Overview holds the dashboard totals.
type Overview struct {
	TotalUsers       int
	TotalRestaurants int
	TotalTodos       int
	CompletedTodos   int
	TopRestaurants   []models.Restaurant
}

// Source is the read side of a store the overview is computed from.
type Source[T models.Record] interface {
	State() store.State
	Load(ctx context.Context) error
	Records() []T
}

type OverviewService interface {
	// Overview computes the totals from the mirrors, loading the ones that
	// have not been loaded yet. With reload set every mirror is refetched.
	Overview(ctx context.Context, reload bool) (*Overview, error)
}

type overviewService struct {
	users       Source[models.User]
	restaurants Source[models.Restaurant]
	todos       Source[models.Todo]
}

func NewOverviewService(users Source[models.User], restaurants Source[models.Restaurant], todos Source[models.Todo]) OverviewService {
	return &overviewService{users: users, restaurants: restaurants, todos: todos}
}

func (s *overviewService) Overview(ctx context.Context, reload bool) (*Overview, error) {
	g, gctx := errgroup.WithContext(ctx)
	ensure(gctx, g, s.users, reload)
	ensure(gctx, g, s.restaurants, reload)
	ensure(gctx, g, s.todos, reload)
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard data: %w", err)
	}

	todos := s.todos.Records()
	completed := 0
	for _, t := range todos {
		if t.Completed {
			completed++
		}
	}

	restaurants := s.restaurants.Records()
	return &Overview{
		TotalUsers:       len(s.users.Records()),
		TotalRestaurants: len(restaurants),
		TotalTodos:       len(todos),
		CompletedTodos:   completed,
		TopRestaurants:   TopRated(restaurants, TopRestaurantsLimit),
	}, nil
}

func ensure[T models.Record](ctx context.Context, g *errgroup.Group, src Source[T], reload bool) {
	if !reload && src.State() == store.Ready {
		return
	}
	g.Go(func() error { return src.Load(ctx) })
}

// TopRated returns up to n restaurants by descending rating. Ties keep their
// mirror order. The input is not modified.
func TopRated(restaurants []models.Restaurant, n int) []models.Restaurant {
	out := make([]models.Restaurant, len(restaurants))
	copy(out, restaurants)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

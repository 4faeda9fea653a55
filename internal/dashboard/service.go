package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wastewise/wastewise-console/internal/collectors"
	"github.com/wastewise/wastewise-console/internal/requests"
	"github.com/wastewise/wastewise-console/internal/routes"
)

// CollectorLister loads the collector roster.
type CollectorLister interface {
	List(ctx context.Context, token string) ([]collectors.Collector, error)
}

// RouteLister loads the collection routes.
type RouteLister interface {
	List(ctx context.Context, token string) ([]routes.Route, error)
}

// AnalyticsFetcher loads the request analytics summary.
type AnalyticsFetcher interface {
	Analytics(ctx context.Context, token string) (*requests.Summary, error)
}

// Overview is the admin landing-page aggregate.
type Overview struct {
	Collectors       int               `json:"collectors"`
	CollectorsOnline int               `json:"collectorsOnline"`
	Routes           int               `json:"routes"`
	RoutesActive     int               `json:"routesActive"`
	Requests         *requests.Summary `json:"requests"`
}

// Service fans out to the resource services and assembles the overview.
type Service struct {
	collectors CollectorLister
	routes     RouteLister
	analytics  AnalyticsFetcher
}

// NewService constructs a Service instance.
func NewService(c CollectorLister, r RouteLister, a AnalyticsFetcher) *Service {
	return &Service{collectors: c, routes: r, analytics: a}
}

// Overview loads the three data sources concurrently. Any failure cancels
// the remaining fetches and fails the whole load.
func (s *Service) Overview(ctx context.Context, token string) (*Overview, error) {
	var overview Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roster, err := s.collectors.List(gctx, token)
		if err != nil {
			return err
		}
		overview.Collectors = len(roster)
		for _, c := range roster {
			if c.IsOnline {
				overview.CollectorsOnline++
			}
		}
		return nil
	})
	g.Go(func() error {
		all, err := s.routes.List(gctx, token)
		if err != nil {
			return err
		}
		overview.Routes = len(all)
		for _, rt := range all {
			if rt.IsActive {
				overview.RoutesActive++
			}
		}
		return nil
	})
	g.Go(func() error {
		summary, err := s.analytics.Analytics(gctx, token)
		if err != nil {
			return err
		}
		overview.Requests = summary
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Command geoquery compiles or runs a natural-language listing search from
// the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/bootstrap"
	"github.com/kailas-cloud/geosearch/internal/config"
	"github.com/kailas-cloud/geosearch/internal/db"
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
	"github.com/kailas-cloud/geosearch/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/geosearch/internal/logger"
	chiTransport "github.com/kailas-cloud/geosearch/internal/transport/chi"
	"github.com/kailas-cloud/geosearch/internal/transport/typesense"
	searchuc "github.com/kailas-cloud/geosearch/internal/usecase/search"
	"github.com/kailas-cloud/geosearch/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "geoquery:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	r := &runner{out: out}

	requestFlags := []cli.Flag{
		&cli.Float64Flag{Name: "lat", Usage: "Caller latitude"},
		&cli.Float64Flag{Name: "lon", Usage: "Caller longitude"},
		&cli.Float64Flag{Name: "radius-km", Usage: "Search radius override in km"},
		&cli.IntFlag{Name: "page", Usage: "Result page, 1-based", Value: 1},
		&cli.IntFlag{Name: "per-page", Usage: "Results per page (0 uses the configured default)"},
		&cli.StringFlag{Name: "filters", Usage: "Explicit filter set as JSON, applied over the query"},
	}

	return &cli.App{
		Name:    "geoquery",
		Usage:   "Compile and run natural-language farm, ranch and eatery searches",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Config environment (reads config/<env>.yaml)",
				Value:   config.GetEnv(),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "backend-url",
				Usage: "Override backend.url from the config",
			},
		},
		Before: r.setup,
		After:  r.close,
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Print the backend parameters for a query without running it",
				ArgsUsage: "<query>",
				Flags:     requestFlags,
				Action:    r.compile,
			},
			{
				Name:      "search",
				Usage:     "Run a query against the backend and print the results",
				ArgsUsage: "<query>",
				Flags:     requestFlags,
				Action:    r.search,
			},
		},
	}
}

type runner struct {
	out    io.Writer
	logger *zap.Logger
	store  db.Store
	svc    *searchuc.Service
}

func (r *runner) setup(c *cli.Context) error {
	if c.Args().Len() == 0 {
		// help and version need no pipeline
		return nil
	}

	env := c.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}
	if u := c.String("backend-url"); u != "" {
		cfg.Backend.URL = u
	}

	level := c.String("log-level")
	r.logger, err = logpkg.New(env, level)
	if err != nil {
		return err
	}

	ctx := context.Background()
	r.store, err = bootstrap.Store(ctx, cfg.Cache, r.logger)
	if err != nil {
		return fmt.Errorf("open shape store: %w", err)
	}

	backend, err := bootstrap.Backend(cfg.Backend, r.logger)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	places, _ := bootstrap.Recognizer(cfg, r.logger)
	ext := bootstrap.Extractor(cfg, places, r.logger)
	r.svc = bootstrap.Search(cfg.Search, backend, r.store, cfg.Cache.KeyPrefix, ext, r.logger)
	return nil
}

func (r *runner) close(*cli.Context) error {
	if r.logger != nil {
		_ = r.logger.Sync()
	}
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

func (r *runner) compile(c *cli.Context) error {
	req, err := requestFrom(c)
	if err != nil {
		return err
	}

	plan, err := r.svc.Compile(c.Context, req)
	if err != nil {
		return err
	}

	params := make(map[string]string)
	for k, v := range typesense.Params(plan.Compiled) {
		params[k] = v[0]
	}
	return r.print(chiTransport.CompileResponse{
		Params:   params,
		Shape:    plan.Shape,
		CacheHit: plan.CacheHit,
		Meta: chiTransport.SearchMeta{
			UsingUserLocation: plan.UsingUserLocation,
			SearchRadiusKm:    plan.SearchRadiusKm,
			PlaceNames:        nonNil(plan.Shape.PlaceNames),
			SortTier:          plan.Compiled.Tier,
		},
	})
}

func (r *runner) search(c *cli.Context) error {
	req, err := requestFrom(c)
	if err != nil {
		return err
	}

	resp, err := r.svc.Search(c.Context, req)
	if err != nil {
		return err
	}

	return r.print(chiTransport.SearchResponse{
		Hits:  resp.Hits,
		Found: resp.Found,
		OutOf: resp.OutOf,
		Page:  resp.Page,
		Meta: chiTransport.SearchMeta{
			UsingUserLocation: resp.UsingUserLocation,
			SearchRadiusKm:    resp.SearchRadiusKm,
			PlaceNames:        nonNil(resp.PlaceNames),
			SortTier:          resp.Tier,
		},
	})
}

func (r *runner) print(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// requestFrom builds a search request from the subcommand's args and flags.
func requestFrom(c *cli.Context) (searchuc.Request, error) {
	if c.Args().Len() == 0 {
		return searchuc.Request{}, fmt.Errorf("query argument is required")
	}

	req := searchuc.Request{
		Query:   strings.Join(c.Args().Slice(), " "),
		Page:    c.Int("page"),
		PerPage: c.Int("per-page"),
	}

	switch {
	case c.IsSet("lat") && c.IsSet("lon"):
		req.Position = &geo.Point{Lat: c.Float64("lat"), Lon: c.Float64("lon")}
	case c.IsSet("lat") || c.IsSet("lon"):
		return searchuc.Request{}, fmt.Errorf("--lat and --lon must be given together")
	}
	if c.IsSet("radius-km") {
		req.RadiusKm = filter.Ptr(c.Float64("radius-km"))
	}
	if raw := c.String("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Filters); err != nil {
			return searchuc.Request{}, fmt.Errorf("parse --filters: %w", err)
		}
	}
	return req, nil
}

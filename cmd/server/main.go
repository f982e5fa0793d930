package main

import (
	"cluster-route-service/internal/adapters/cluster"
	"cluster-route-service/internal/adapters/fake"
	"cluster-route-service/internal/adapters/mapbox"
	"cluster-route-service/internal/adapters/ors"
	"cluster-route-service/internal/adapters/progress"
	"cluster-route-service/internal/adapters/repositories"
	"cluster-route-service/internal/api"
	"cluster-route-service/internal/config"
	"cluster-route-service/internal/platform/db"
	"cluster-route-service/internal/ports"
	"cluster-route-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (database, routing provider, clustering source,
// progress store) behind ports and runs the HTTP server until a signal arrives.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	conn, dialect, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	if cfg.SeedPath != "" {
		n, err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath)
		if err != nil {
			return err
		}
		log.Printf("orders seeded: count=%d path=%s", n, cfg.SeedPath)
	}
	orders := repositories.NewSQLOrderRepository(conn, dialect)

	matrix, directions, err := routingProviders(cfg)
	if err != nil {
		return err
	}

	clusters, err := clusterProvider(cfg, orders)
	if err != nil {
		return err
	}

	var store ports.ProgressStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		store = progress.NewRedisProgressStore(rdb, cfg.RedisKey)
	}

	planner := services.NewRoutePlanner(
		matrix,
		directions,
		services.NewTSPSolver(cfg.MaxWaypoints, cfg.ReturnToDepot),
		cfg.MatrixTimeout,
		cfg.DirectionsTimeout,
	)

	orch, err := services.NewOrchestrator(services.OrchestratorConfig{
		Planner:   planner,
		Clusters:  clusters,
		Store:     store,
		Depot:     cfg.Depot,
		Tolerance: cfg.Tolerance,
	})
	if err != nil {
		return err
	}
	defer orch.Close()

	// A missing snapshot is not fatal; the planner simply starts clean.
	if err := orch.Restore(ctx); err != nil {
		log.Printf("progress restore failed: %v", err)
	}
	if _, err := orch.Refresh(ctx); err != nil {
		log.Printf("initial cluster load failed: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(orders, orch, cfg.StockPath),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening addr=:%s provider=%s", cfg.Port, cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openDatabase(cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}

	if dialect == repositories.Postgres {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, dialect, err
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, dialect, err
}

func routingProviders(cfg config.Config) (ports.MatrixProvider, ports.DirectionsProvider, error) {
	switch cfg.Provider {
	case "mapbox":
		c, err := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxURL, cfg.RouteProfile, nil)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case "ors":
		p, err := ors.NewProvider(cfg.ORSKey, cfg.ORSURL, cfg.RouteProfile, nil)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case "fake":
		log.Println("Using offline fake routing provider")
		return fake.NewMatrixProvider(), fake.NewDirectionsProvider(), nil
	default:
		return nil, nil, fmt.Errorf("unknown routing provider %q", cfg.Provider)
	}
}

func clusterProvider(cfg config.Config, orders ports.OrderRepository) (ports.ClusterProvider, error) {
	if cfg.ClusterServiceURL != "" {
		return cluster.NewHTTPProvider(cfg.ClusterServiceURL, orders, cfg.MaxPointsPerCluster, nil)
	}
	return cluster.NewFileProvider(cfg.ClustersPath), nil
}

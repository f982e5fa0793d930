package config

import (
	"cluster-route-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Solver hard ceiling; the DP table grows as n·2ⁿ.
const MaxSolverWaypoints = 20

// Config is the full runtime configuration of the server.
type Config struct {
	Port string

	// Order storage: "sqlite" (DBPath) or "postgres" (DatabaseURL).
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string
	// Seed file that POST /orders/stock reloads the orders table from.
	StockPath string

	// Routing provider: "mapbox", "ors" or "fake".
	Provider     string
	MapboxToken  string
	MapboxURL    string
	ORSKey       string
	ORSURL       string
	RouteProfile string

	// Clusters come from the clustering service when ClusterServiceURL is set,
	// otherwise from the static ClustersPath file.
	ClusterServiceURL   string
	ClustersPath        string
	MaxPointsPerCluster int

	Depot             domain.Coordinates
	MaxWaypoints      int
	ReturnToDepot     bool
	Tolerance         float64
	MatrixTimeout     time.Duration
	DirectionsTimeout time.Duration

	// Optional progress snapshot.
	RedisAddr string
	RedisKey  string
}

// Get returns the environment value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment and validates it.
// Call godotenv.Load first to pick up a local .env file.
func Load() (Config, error) {
	var errs []error

	intVar := func(key string, fallback int) int {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}
	floatVar := func(key string, fallback float64) float64 {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}
	boolVar := func(key string, fallback bool) bool {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}

	cfg := Config{
		Port:                Get("PORT", "8080"),
		DBDriver:            strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:              Get("DB_PATH", "data/app.db"),
		DatabaseURL:         Get("DATABASE_URL", ""),
		SeedPath:            Get("SEED_PATH", ""),
		StockPath:           Get("STOCK_PATH", "data/seeds/orders.json"),
		Provider:            strings.ToLower(Get("ROUTE_PROVIDER", "mapbox")),
		MapboxToken:         Get("MAPBOX_ACCESS_TOKEN", ""),
		MapboxURL:           Get("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		ORSKey:              Get("ORS_API_KEY", ""),
		ORSURL:              Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		RouteProfile:        Get("ROUTE_PROFILE", ""),
		ClusterServiceURL:   Get("CLUSTER_SERVICE_URL", ""),
		ClustersPath:        Get("CLUSTERS_PATH", "data/clusters.json"),
		MaxPointsPerCluster: intVar("MAX_POINTS_PER_CLUSTER", 10),
		Depot: domain.Coordinates{
			Lon: floatVar("DEPOT_LON", 73.18431705853321),
			Lat: floatVar("DEPOT_LAT", 22.28310051174754),
		},
		MaxWaypoints:      intVar("MAX_WAYPOINTS", 16),
		ReturnToDepot:     boolVar("ROUTE_RETURN_TO_DEPOT", true),
		Tolerance:         floatVar("COORD_TOLERANCE", domain.DefaultTolerance),
		MatrixTimeout:     durationVar("MATRIX_TIMEOUT", 10*time.Second),
		DirectionsTimeout: durationVar("DIRECTIONS_TIMEOUT", 15*time.Second),
		RedisAddr:         Get("REDIS_ADDR", ""),
		RedisKey:          Get("REDIS_PROGRESS_KEY", "progress:completed"),
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}

	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error

	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want sqlite or postgres", c.DBDriver))
	}

	switch c.Provider {
	case "mapbox":
		if c.MapboxToken == "" {
			errs = append(errs, errors.New("MAPBOX_ACCESS_TOKEN is required when ROUTE_PROVIDER=mapbox"))
		}
	case "ors":
		if c.ORSKey == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required when ROUTE_PROVIDER=ors"))
		}
	case "fake":
	default:
		errs = append(errs, fmt.Errorf("ROUTE_PROVIDER %q: want mapbox, ors or fake", c.Provider))
	}

	if c.MaxWaypoints < 1 || c.MaxWaypoints > MaxSolverWaypoints {
		errs = append(errs, fmt.Errorf("MAX_WAYPOINTS must be between 1 and %d", MaxSolverWaypoints))
	}
	if c.MaxPointsPerCluster < 1 {
		errs = append(errs, errors.New("MAX_POINTS_PER_CLUSTER must be positive"))
	}
	if c.MaxPointsPerCluster >= c.MaxWaypoints {
		// The depot takes one slot of every solved set.
		errs = append(errs, fmt.Errorf("MAX_POINTS_PER_CLUSTER must be below MAX_WAYPOINTS (%d)", c.MaxWaypoints))
	}
	if c.Tolerance <= 0 {
		errs = append(errs, errors.New("COORD_TOLERANCE must be positive"))
	}
	if !c.Depot.Valid() {
		errs = append(errs, fmt.Errorf("depot %v is not a valid lon/lat pair", c.Depot))
	}
	if c.MatrixTimeout <= 0 || c.DirectionsTimeout <= 0 {
		errs = append(errs, errors.New("MATRIX_TIMEOUT and DIRECTIONS_TIMEOUT must be positive"))
	}

	return errs
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/jengzang/kerbside-backend-go/internal/grid"
)

var (
	ErrUnknownDataSource = errors.New("unknown data source")
	ErrUnknownFinder     = errors.New("unknown finder index")
	ErrInvalidInterval   = errors.New("refresh interval must be positive")
	ErrInvalidGrid       = errors.New("invalid grid settings")
	ErrInvalidValue      = errors.New("invalid config value")
)

// 数据源类型
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config 应用配置
type Config struct {
	Port            string
	DataSource      string
	CSVURL          string
	DBPath          string
	RefreshInterval time.Duration

	Geocoder GeocoderConfig
	Redis    RedisConfig

	CellSizeMeters  float64
	GridRadiusCells int
	ListLimit       int
	FinderIndex     string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
}

// GeocoderConfig Nominatim 相关配置
type GeocoderConfig struct {
	URL       string
	UserAgent string
	Suffix    string
	Country   string
	Viewbox   string
	RPS       float64
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// RedisConfig 为空地址时不启用 Redis 缓存
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load 加载配置：.env → CONFIG_FILE (YAML) → 环境变量，后者覆盖前者
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	file := map[string]string{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if file, err = readYAML(path); err != nil {
			return nil, err
		}
	}
	s := &source{file: file}

	cfg := &Config{
		Port:            normalizePort(s.getString("PORT", ":8080")),
		DataSource:      strings.ToLower(s.getString("DATA_SOURCE", SourceCSV)),
		CSVURL:          s.getString("CSV_URL", "./data/parking_results_for_comparison.csv"),
		DBPath:          s.getString("DB_PATH", "./data/kerbside.db"),
		RefreshInterval: s.getDuration("REFRESH_INTERVAL", 10*time.Second),
		Geocoder: GeocoderConfig{
			URL:       s.getString("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
			UserAgent: s.getString("GEOCODER_USER_AGENT", "kerbside-backend/1.0"),
			Suffix:    s.getRaw("GEOCODER_SUFFIX", " Melbourne"),
			Country:   s.getString("GEOCODER_COUNTRY", "au"),
			Viewbox:   s.getString("GEOCODER_VIEWBOX", "144.90,-37.70,145.05,-38.10"),
			RPS:       s.getFloat("GEOCODER_RPS", 1),
			Timeout:   s.getDuration("GEOCODER_TIMEOUT", 5*time.Second),
			CacheSize: s.getInt("GEOCODE_CACHE_SIZE", 1024),
			CacheTTL:  s.getDuration("GEOCODE_CACHE_TTL", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     s.getString("REDIS_ADDR", ""),
			Password: s.getString("REDIS_PASSWORD", ""),
			DB:       s.getInt("REDIS_DB", 0),
		},
		CellSizeMeters:  s.getFloat("CELL_SIZE_METERS", 300),
		GridRadiusCells: s.getInt("GRID_RADIUS_CELLS", 1),
		ListLimit:       s.getInt("LIST_LIMIT", 200),
		FinderIndex:     strings.ToLower(s.getString("FINDER_INDEX", "linear")),
		RateLimitRPS:    s.getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  s.getInt("RATE_LIMIT_BURST", 10),
		LogLevel:        s.getString("LOG_LEVEL", "info"),
		LogFormat:       s.getString("LOG_FORMAT", "text"),
	}

	if len(s.errs) > 0 {
		return nil, errors.Join(s.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDataSource, c.DataSource)
	}
	switch c.FinderIndex {
	case "linear", "geohash":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFinder, c.FinderIndex)
	}
	if c.RefreshInterval <= 0 {
		return ErrInvalidInterval
	}
	// 与请求参数走同一套网格校验
	if err := c.GridOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	if c.Geocoder.CacheSize < 1 {
		return fmt.Errorf("%w: GEOCODE_CACHE_SIZE must be at least 1", ErrInvalidValue)
	}
	return nil
}

// GridOptions returns the configured grid geometry
func (c *Config) GridOptions() grid.Options {
	return grid.Options{CellSizeMeters: c.CellSizeMeters, RadiusCells: c.GridRadiusCells}
}

func readYAML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func normalizePort(p string) string {
	if p != "" && !strings.Contains(p, ":") {
		return ":" + p
	}
	return p
}

// source 按环境变量 → YAML → 默认值的顺序取值，并收集解析错误
type source struct {
	file map[string]string
	errs []error
}

func (s *source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

func (s *source) getString(key, def string) string {
	if v, ok := s.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// getRaw keeps surrounding whitespace, needed for the geocoder suffix
func (s *source) getRaw(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

func (s *source) getInt(key string, def int) int {
	v := s.getString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return def
	}
	return n
}

func (s *source) getFloat(key string, def float64) float64 {
	v := s.getString(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return def
	}
	return f
}

func (s *source) getDuration(key string, def time.Duration) time.Duration {
	v := s.getString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return def
	}
	return d
}

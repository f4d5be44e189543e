package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"collateral-lending/internal/domain/oracle"

	"github.com/joho/godotenv"
)

const (
	OracleStatic = "static"
	OracleRedis  = "redis"
)

type Config struct {
	AppPort string

	MySQLHost   string
	MySQLPort   string
	MySQLDB     string
	MySQLUser   string
	MySQLPass   string
	DBLogLevel  string
	AutoMigrate bool

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	// Redis stream receiving ledger events; "off" disables publishing.
	EventsStream       string
	EventsStreamMaxLen int64

	MaxOpenLoans       int
	CollateralDecimals uint8
	StableDecimals     uint8

	OracleMode             string
	OracleAsset            string
	OracleStaticPrice      uint64
	OracleMaxStalenessSecs int
	OracleMaxSkewSecs      int
	OracleMaxConfBps       uint64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// getenvInt keeps d when k is unset or not a number; Validate catches
// values that make no sense.
func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvUint(k string, d uint64, bits int) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, bits); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// Load reads .env (when present) into the process environment, then builds
// the config from it. Variables already set win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "lending"),
		MySQLUser:   getenv("MYSQL_USER", "lending"),
		MySQLPass:   getenv("MYSQL_PASS", "lending"),
		DBLogLevel:  getenv("DB_LOG_LEVEL", "warn"),
		AutoMigrate: getenvBool("AUTO_MIGRATE", true),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		EventsStream:       getenv("EVENTS_STREAM", "lending:events"),
		EventsStreamMaxLen: int64(getenvUint("EVENTS_STREAM_MAXLEN", 100_000, 63)),

		MaxOpenLoans:       getenvInt("MAX_OPEN_LOANS_PER_ACCOUNT", 10),
		CollateralDecimals: uint8(getenvUint("COLLATERAL_DECIMALS", 9, 8)),
		StableDecimals:     uint8(getenvUint("STABLE_DECIMALS", 6, 8)),

		OracleMode:             getenv("ORACLE_MODE", OracleStatic),
		OracleAsset:            getenv("ORACLE_ASSET", "SOL"),
		OracleStaticPrice:      getenvUint("ORACLE_STATIC_PRICE", 100_000_000, 64),
		OracleMaxStalenessSecs: getenvInt("ORACLE_MAX_STALENESS_SECS", 60),
		OracleMaxSkewSecs:      getenvInt("ORACLE_MAX_SKEW_SECS", 5),
		OracleMaxConfBps:       getenvUint("ORACLE_MAX_CONFIDENCE_BPS", 200, 64),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if c.MaxOpenLoans <= 0 {
		return fmt.Errorf("MAX_OPEN_LOANS_PER_ACCOUNT must be positive, got %d", c.MaxOpenLoans)
	}
	// 10^19 no longer fits a uint64 amount
	if c.CollateralDecimals > 18 || c.StableDecimals > 18 {
		return errors.New("COLLATERAL_DECIMALS and STABLE_DECIMALS must be at most 18")
	}
	switch c.OracleMode {
	case OracleStatic:
		if c.OracleStaticPrice == 0 {
			return errors.New("ORACLE_STATIC_PRICE must be positive")
		}
	case OracleRedis:
		if c.OracleAsset == "" {
			return errors.New("missing ORACLE_ASSET")
		}
	default:
		return fmt.Errorf("unknown ORACLE_MODE %q (want static|redis)", c.OracleMode)
	}
	if c.OracleMaxStalenessSecs < 0 || c.OracleMaxSkewSecs < 0 {
		return errors.New("oracle staleness and skew must not be negative")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

// OraclePolicy is the acceptance policy for price readings. A zero bound
// disables its check.
func (c *Config) OraclePolicy() oracle.Policy {
	return oracle.Policy{
		MaxStaleness:     time.Duration(c.OracleMaxStalenessSecs) * time.Second,
		MaxSkew:          time.Duration(c.OracleMaxSkewSecs) * time.Second,
		MaxConfidenceBps: c.OracleMaxConfBps,
	}
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

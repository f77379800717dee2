package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/application"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/db"
	inmemorylivestore "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/live-store/inmemory"
	redislivestore "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/live-store/redis"
	timescheduler "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/scheduler/gocron"
	inmemorytokenadapter "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/token-adapter/inmemory"
	resttokenadapter "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/token-adapter/rest"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type supportedType map[string]struct{}

var (
	supportedEventDbs = supportedType{
		"badger": {},
	}
	supportedDbs = supportedType{
		"badger": {},
		"sqlite": {},
	}
	supportedLiveStores = supportedType{
		"inmemory": {},
		"redis":    {},
	}
	supportedTokenAdapters = supportedType{
		"inmemory": {},
		"rest":     {},
	}
)

type Config struct {
	Datadir  string
	Port     uint32
	LogLevel int

	DbType      string
	EventDbType string
	DbDir       string
	EventDbDir  string

	LiveStoreType string
	RedisUrl      string

	TokenAdapterType string
	TokenEndpointUrl string

	OwnerAddress        string
	SupplyAuditInterval int64 // seconds, 0 disables the audit job

	repo      ports.RepoManager
	guard     ports.OpGuard
	adapters  ports.TokenAdapterFactory
	scheduler ports.SchedulerService
	adminSvc  application.AdminService
	svc       application.Service
}

func (c *Config) String() string {
	clone := *c
	buf, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(buf)
}

var (
	defaultDatadir             = appDataDir()
	DefaultPort                = 7480
	defaultLogLevel            = 4
	defaultDbType              = "badger"
	defaultEventDbType         = "badger"
	defaultLiveStoreType       = "inmemory"
	defaultTokenAdapterType    = "inmemory"
	defaultSupplyAuditInterval = int64(0)
)

// env returns a list of strings prefixed with `NGD_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))
	for i, value := range values {
		envs[i] = fmt.Sprintf("NGD_%s", value)
	}
	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	DbType = &cli.StringFlag{
		Usage: "Database type (badger, sqlite)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	EventDbType = &cli.StringFlag{
		Usage: "Event database type (badger)",
		Name:  "event-db-type", EnvVars: env("EVENT_DB_TYPE"),
		Value: defaultEventDbType,
	}

	LiveStoreType = &cli.StringFlag{
		Usage: "Live store type (inmemory, redis)",
		Name:  "live-store-type", EnvVars: env("LIVE_STORE_TYPE"),
		Value: defaultLiveStoreType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis connection url if NGD_LIVE_STORE_TYPE is set to redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	TokenAdapterType = &cli.StringFlag{
		Usage: "Token adapter type (inmemory, rest)",
		Name:  "token-adapter-type", EnvVars: env("TOKEN_ADAPTER_TYPE"),
		Value: defaultTokenAdapterType,
	}

	TokenEndpointUrl = &cli.StringFlag{
		Usage: "Token endpoint url if NGD_TOKEN_ADAPTER_TYPE is set to rest",
		Name:  "token-endpoint-url", EnvVars: env("TOKEN_ENDPOINT_URL"),
	}

	OwnerAddress = &cli.StringFlag{
		Usage: "Owner address used on first boot, a persisted owner always wins",
		Name:  "owner", EnvVars: env("OWNER"),
	}

	SupplyAuditInterval = &cli.Int64Flag{
		Usage: "Interval in seconds between supply audit runs, 0 disables the job",
		Name:  "supply-audit-interval", EnvVars: env("SUPPLY_AUDIT_INTERVAL"),
		Value: defaultSupplyAuditInterval,
	}
)

var Flags = []cli.Flag{
	Datadir,
	Port,
	LogLevel,
	DbType,
	EventDbType,
	LiveStoreType,
	RedisUrl,
	TokenAdapterType,
	TokenEndpointUrl,
	OwnerAddress,
	SupplyAuditInterval,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")

	var redisUrl string
	if c.String(LiveStoreType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("live store type set to 'redis' but redis url is missing")
		}
	}

	var tokenEndpointUrl string
	if c.String(TokenAdapterType.Name) == "rest" {
		tokenEndpointUrl = c.String(TokenEndpointUrl.Name)
		if tokenEndpointUrl == "" {
			return nil, fmt.Errorf(
				"token adapter type set to 'rest' but token endpoint url is missing",
			)
		}
	}

	return &Config{
		Datadir:             c.String(Datadir.Name),
		Port:                uint32(c.Uint(Port.Name)),
		LogLevel:            c.Int(LogLevel.Name),
		DbType:              c.String(DbType.Name),
		EventDbType:         c.String(EventDbType.Name),
		DbDir:               dbPath,
		EventDbDir:          dbPath,
		LiveStoreType:       c.String(LiveStoreType.Name),
		RedisUrl:            redisUrl,
		TokenAdapterType:    c.String(TokenAdapterType.Name),
		TokenEndpointUrl:    tokenEndpointUrl,
		OwnerAddress:        c.String(OwnerAddress.Name),
		SupplyAuditInterval: c.Int64(SupplyAuditInterval.Name),
	}, nil
}

func (c *Config) Validate() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf(
			"event db type not supported, please select one of: %s", supportedEventDbs,
		)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedLiveStores.supports(c.LiveStoreType) {
		return fmt.Errorf(
			"live store type not supported, please select one of: %s", supportedLiveStores,
		)
	}
	if !supportedTokenAdapters.supports(c.TokenAdapterType) {
		return fmt.Errorf(
			"token adapter type not supported, please select one of: %s",
			supportedTokenAdapters,
		)
	}
	if c.SupplyAuditInterval < 0 {
		return fmt.Errorf("invalid supply audit interval, must not be negative")
	}

	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.guardService(); err != nil {
		return err
	}
	if err := c.adapterService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	if err := c.bootstrapState(); err != nil {
		return err
	}
	c.adminSvc = application.NewAdminService(c.repo, c.guard)
	c.svc = application.NewService(c.repo, c.adapters, c.guard)
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	return c.repo
}

func (c *Config) AdminService() application.AdminService {
	return c.adminSvc
}

func (c *Config) AppService() application.Service {
	return c.svc
}

func (c *Config) SchedulerService() ports.SchedulerService {
	return c.scheduler
}

func (c *Config) repoManager() error {
	logger := log.New()

	svc, err := db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: []interface{}{c.EventDbDir, logger},
		DataStoreConfig:  c.dataStoreConfig(logger),
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) dataStoreConfig(logger *log.Logger) []interface{} {
	if c.DbType == "sqlite" {
		return []interface{}{c.DbDir}
	}
	return []interface{}{c.DbDir, logger}
}

func (c *Config) guardService() error {
	switch c.LiveStoreType {
	case "inmemory":
		c.guard = inmemorylivestore.NewOpGuard()
	case "redis":
		redisOpts, err := redis.ParseURL(c.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		c.guard = redislivestore.NewOpGuard(redis.NewClient(redisOpts))
	default:
		return fmt.Errorf("unknown live store type")
	}
	return nil
}

func (c *Config) adapterService() error {
	switch c.TokenAdapterType {
	case "inmemory":
		c.adapters = inmemorytokenadapter.NewTokenAdapterFactory()
	case "rest":
		c.adapters = resttokenadapter.NewTokenAdapterFactory(c.TokenEndpointUrl)
	default:
		return fmt.Errorf("unknown token adapter type")
	}
	return nil
}

func (c *Config) schedulerService() error {
	c.scheduler = timescheduler.NewScheduler()
	return nil
}

func (c *Config) bootstrapState() error {
	var owner domain.Address
	if len(c.OwnerAddress) > 0 {
		parsed, err := domain.ParseAddress(c.OwnerAddress)
		if err != nil {
			return fmt.Errorf("invalid owner address: %w", err)
		}
		owner = parsed
	}
	return application.BootstrapState(context.Background(), c.repo, owner)
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func appDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ngd"
	}
	return filepath.Join(home, ".ngd")
}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	buf, _ := json.Marshal(types)
	return string(buf)
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}

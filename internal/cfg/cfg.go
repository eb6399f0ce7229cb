package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Backend *BackendCfg
	Redis   *RedisCfg
	Page    *PageCfg
	Db      *PGDBCfg  // nil, если журнал отправок выключен
	Kafka   *KafkaCfg // nil, если журнал отправок выключен
}

// EventsEnabled сообщает, включён ли журнал отправок (Postgres outbox + Kafka).
func (c *Config) EventsEnabled() bool {
	return c.Kafka != nil && c.Db != nil
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	PublicURL    string // адрес, по которому swagger UI запрашивает doc.json
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

// BackendCfg описывает REST API каталога, в который отправляются формы.
type BackendCfg struct {
	BaseURL      string        // API_URL без завершающего слэша
	AccountID    string        // сегмент пути /ajax/{account}/...
	Timeout      time.Duration // таймаут одного HTTP-запроса
	FetchRetries int           // число повторов загрузки категорий после первой неудачи
	RetryBase    time.Duration
	RetryMax     time.Duration
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	CategoryTTL time.Duration // время жизни закэшированного списка категорий
}

// PageCfg — параметры страницы добавления.
type PageCfg struct {
	AlertDuration time.Duration // сколько показывается баннер после отправки формы
	SessionTTL    time.Duration // сколько хранится состояние форм посетителя
	CookieSecure  bool
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// DSN собирает строку подключения к PostgreSQL.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	BatchSize         int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Если рядом лежит .env, переменные из него подхватываются до чтения окружения.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		log.Debugf(".env file not found, using environment variables")
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	backend, err := loadBackendCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	page, err := loadPageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg := &Config{
		Http:    http,
		Grpc:    loadGRPCConfig(),
		Backend: backend,
		Redis:   redis,
		Page:    page,
	}

	// Журнал отправок включается заданием брокеров Kafka
	if getEnv("KAFKA_BROKERS") == "" {
		log.Infof("KAFKA_BROKERS is not set, submission journal disabled")
		return cfg, nil
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg.Kafka = kafka
	cfg.Db = db

	return cfg, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		PublicURL:    strings.TrimRight(getEnvOrDefault("PUBLIC_URL", "http://localhost:"+port), "/"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadBackendCfg(log logger.Logger) (*BackendCfg, error) {
	const (
		defaultAccountID    = "219"
		defaultTimeout      = 10 * time.Second
		defaultFetchRetries = 3
		defaultRetryBase    = 1 * time.Second
		defaultRetryMax     = 30 * time.Second
	)

	baseURL := strings.TrimRight(getEnv("API_URL"), "/")
	if baseURL == "" {
		err := fmt.Errorf("API_URL is required")
		log.Errorf(err, "missing API_URL")
		return nil, err
	}

	timeout, err := parseDurationEnv("API_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid API_TIMEOUT")
		return nil, err
	}

	retries, err := parseIntEnv("API_FETCH_RETRIES", defaultFetchRetries)
	if err != nil {
		log.Errorf(err, "invalid API_FETCH_RETRIES")
		return nil, err
	}

	retryBase, err := parseDurationEnv("API_RETRY_BASE", defaultRetryBase)
	if err != nil {
		log.Errorf(err, "invalid API_RETRY_BASE")
		return nil, err
	}

	retryMax, err := parseDurationEnv("API_RETRY_MAX", defaultRetryMax)
	if err != nil {
		log.Errorf(err, "invalid API_RETRY_MAX")
		return nil, err
	}

	return &BackendCfg{
		BaseURL:      baseURL,
		AccountID:    getEnvOrDefault("BACKEND_ACCOUNT_ID", defaultAccountID),
		Timeout:      timeout,
		FetchRetries: retries,
		RetryBase:    retryBase,
		RetryMax:     retryMax,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCategoryTTL  = 1 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	categoryTTL, err := parseDurationEnv("CATEGORY_TTL", defaultCategoryTTL)
	if err != nil {
		log.Errorf(err, "invalid CATEGORY_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		CategoryTTL: categoryTTL,
	}, nil
}

func loadPageCfg(log logger.Logger) (*PageCfg, error) {
	const (
		defaultAlertDuration = 3 * time.Second
		defaultSessionTTL    = 30 * time.Minute
	)

	alertDuration, err := parseDurationEnv("ALERT_DURATION", defaultAlertDuration)
	if err != nil {
		log.Errorf(err, "invalid ALERT_DURATION")
		return nil, err
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		log.Errorf(err, "invalid SESSION_TTL")
		return nil, err
	}

	secure, err := strconv.ParseBool(getEnvOrDefault("COOKIE_SECURE", "false"))
	if err != nil {
		log.Errorf(err, "invalid COOKIE_SECURE")
		return nil, err
	}

	return &PageCfg{
		AlertDuration: alertDuration,
		SessionTTL:    sessionTTL,
		CookieSecure:  secure,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "catalog-admin.submissions"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultBatchSize         = 10
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("KAFKA_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		return nil, e.Wrap("KAFKA_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		BatchSize:         batchSize,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

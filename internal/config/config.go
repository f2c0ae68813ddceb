package config

import (
	"encoding/json"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"assetqc"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass" json:"-"`
}

type svcConfig struct {
	Address         string   `envconfig:"QC_ADDRESS" default:":3443"`
	MetricsAddress  string   `envconfig:"QC_METRICS_ADDRESS" default:":8080"`
	LogLevel        string   `envconfig:"QC_LOG_LEVEL" default:"info"`
	MigrationFolder string   `envconfig:"QC_MIGRATIONS_FOLDER" default:""`
	CorsOrigins     []string `envconfig:"QC_CORS_ORIGINS" default:"http://localhost:3000"`
	Workflow        Workflow
	Auth            Auth
	Events          Events
	Tracing         Tracing
}

type Workflow struct {
	// ApprovedStage is the stage an approved asset lands in: Published or Approved.
	ApprovedStage string `envconfig:"QC_APPROVED_STAGE" default:"Published"`
}

type Auth struct {
	AuthenticationType string `envconfig:"QC_AUTH" default:""`
	JwkCertURL         string `envconfig:"QC_JWK_URL" default:""`
	Secret             string `envconfig:"QC_AUTH_SECRET" default:"" json:"-"`
}

type Events struct {
	Writer string `envconfig:"QC_EVENTS_WRITER" default:"stdout"`
	Kafka  kafkaConfig
	Redis  redisConfig
}

type kafkaConfig struct {
	Brokers  []string `envconfig:"QC_KAFKA_BROKERS" default:""`
	Topic    string   `envconfig:"QC_KAFKA_TOPIC" default:"assetqc.events"`
	Version  string   `envconfig:"QC_KAFKA_VERSION" default:""`
	ClientID string   `envconfig:"QC_KAFKA_CLIENT_ID" default:"asset-qc"`
}

type redisConfig struct {
	Address string `envconfig:"QC_REDIS_ADDR" default:""`
	Channel string `envconfig:"QC_REDIS_CHANNEL" default:"assetqc.events"`
}

type Tracing struct {
	Exporter     string  `envconfig:"QC_TRACING" default:"none"`
	OtlpEndpoint string  `envconfig:"QC_OTLP_ENDPOINT" default:""`
	SampleRatio  float64 `envconfig:"QC_TRACING_SAMPLE_RATIO" default:"0.1"`
}

// New reads the environment once and returns the cached configuration afterwards.
func New() (*Config, error) {
	if singleConfig == nil {
		cfg, err := NewDefault()
		if err != nil {
			return nil, err
		}
		singleConfig = cfg
	}
	return singleConfig, nil
}

// NewDefault always returns a fresh configuration read from the environment.
func NewDefault() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Storefront struct {
	Port        string `env:"PORT,default=5000"`
	PostgresURL string `env:"POSTGRES_URL,required"`
	DBSchema    string `env:"DB_SCHEMA,default=storefront"`
	SeedCatalog bool   `env:"SEED_CATALOG,default=true"`
	BcryptCost  int    `env:"BCRYPT_COST,default=10"`

	KafkaBrokers     string `env:"KAFKA_BROKERS"`
	OrderEventsTopic string `env:"ORDER_EVENTS_TOPIC,default=order.placed"`

	Telemetry Telemetry
}

type Notifier struct {
	KafkaBrokers     string `env:"KAFKA_BROKERS,required"`
	OrderEventsTopic string `env:"ORDER_EVENTS_TOPIC,default=order.placed"`
	ConsumerGroup    string `env:"NOTIFIER_GROUP,default=order-notifier"`
	MailerURL        string `env:"MAILER_URL,required"`

	Telemetry Telemetry
}

type Mailer struct {
	Port string `env:"PORT,default=8084"`
}

type Migrate struct {
	PostgresURL    string `env:"POSTGRES_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH,default=file://migrations"`
}

type Telemetry struct {
	TracingEnabled bool   `env:"TRACING_ENABLED,default=false"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4317"`
}

// Brokers splits the comma separated broker list, ignoring blanks.
func Brokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Load reads variables from the given .env files (missing files are ignored;
// variables already set in the environment win) and decodes them into cfg.
func Load(cfg any, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return envdecode.StrictDecode(cfg)
}

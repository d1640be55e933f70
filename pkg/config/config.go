package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Storage StorageConfig
	Queue   QueueConfig
	SMTP    SMTPConfig
	SMS     SMSConfig
	AI      AIConfig
	Billing BillingConfig
	CRM     CRMConfig
	Jobs    JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicURL string // URL pública del frontend; se usa para armar los enlaces de reseña
	APIURL    string // URL pública de esta API (webhooks de CRM, feed RSS)
}

// IsProduction indica si la app corre en producción.
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig caché de dashboards, rate limit de login y revocación de tokens.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig almacenamiento de objetos compatible S3 (MinIO).
type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	Bucket       string
	PluginObject string // key del zip del plugin de WordPress dentro del bucket
}

// QueueConfig cola de envío de solicitudes de reseña.
// Si AMQPURL está vacío se usa la cola en memoria (solo desarrollo).
type QueueConfig struct {
	AMQPURL     string
	ReviewQueue string
}

// SMTPConfig servidor de correo saliente.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMSConfig proveedor SMS (API compatible con Twilio).
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
}

// AIConfig generación de borradores de blog.
type AIConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
}

// BillingConfig proveedor de pagos y webhooks.
type BillingConfig struct {
	WebhookSecret string
	ProviderURL   string
	ProviderKey   string
	Currency      string
}

// CRMConfig secretos de los webhooks entrantes de CRMs.
type CRMConfig struct {
	WebhookSecret string
}

// JobsConfig tareas programadas.
type JobsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "rank-it-pro"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", "http://localhost:5173"), "/"),
			APIURL:    strings.TrimRight(getString(v, "API_PUBLIC_URL", "http://localhost:8080"), "/"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "rankitpro"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "rank-it-pro"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:     getString(v, "MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:    getString(v, "MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:    getString(v, "MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:       getBool(v, "MINIO_USE_SSL", false),
			Bucket:       getString(v, "MINIO_BUCKET", "rankitpro"),
			PluginObject: getString(v, "WP_PLUGIN_OBJECT", "plugins/rank-it-pro.zip"),
		},
		Queue: QueueConfig{
			AMQPURL:     getString(v, "AMQP_URL", ""),
			ReviewQueue: getString(v, "REVIEW_QUEUE", "review_requests"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@rankitpro.com"),
		},
		SMS: SMSConfig{
			AccountSID: getString(v, "SMS_ACCOUNT_SID", ""),
			AuthToken:  getString(v, "SMS_AUTH_TOKEN", ""),
			From:       getString(v, "SMS_FROM", ""),
			BaseURL:    getString(v, "SMS_BASE_URL", "https://api.twilio.com/2010-04-01"),
		},
		AI: AIConfig{
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		},
		Billing: BillingConfig{
			WebhookSecret: getString(v, "BILLING_WEBHOOK_SECRET", ""),
			ProviderURL:   getString(v, "BILLING_PROVIDER_URL", ""),
			ProviderKey:   getString(v, "BILLING_PROVIDER_KEY", ""),
			Currency:      getString(v, "BILLING_CURRENCY", "USD"),
		},
		CRM: CRMConfig{
			WebhookSecret: getString(v, "CRM_WEBHOOK_SECRET", ""),
		},
		Jobs: JobsConfig{
			Enabled: getBool(v, "JOBS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones que no deben llegar a producción.
func (c *Config) Validate() error {
	if c.App.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

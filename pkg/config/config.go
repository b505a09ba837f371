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
	App       AppConfig
	Input     InputConfig
	Output    OutputConfig
	Valuation ValuationConfig
	DB        DBConfig
	HTTP      HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// InputConfig archivos y formato de entrada.
type InputConfig struct {
	MovementsFiles []string // uno o más CSV de movimientos, en orden
	SnapshotFile   string   // opcional: inventario inicial
	ChunkSize      int      // filas por lote durante la lectura
	DateLayout     string   // layout Go de StockChangeDateTime
	Encoding       string   // utf-8, latin1, windows-1252
}

// OutputConfig destinos del resumen.
type OutputConfig struct {
	File    string // resumen plano (csv o xml)
	Format  string // csv | xml
	PDFFile string // opcional: reporte PDF
}

// ValuationConfig opciones del motor de valuación.
type ValuationConfig struct {
	Strict        bool   // precio de compra negativo aborta la corrida
	TraceSKU      string // traza por movimiento de una posición (depuración)
	TraceLocation string
}

// DBConfig configuración de PostgreSQL (opcional; vacío = no se persiste).
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

// Enabled indica si hay una base configurada.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
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

// HTTPConfig configuración del servidor HTTP (comando serve).
type HTTPConfig struct {
	Host        string
	Port        int
	MaxUploadMB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Valores por defecto.
const (
	DefaultChunkSize  = 10000
	DefaultDateLayout = "2/1/2006 15:04:05"
	DefaultOutputFile = "stock_summary.csv"
)

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, MOVEMENTS_FILES, OUTPUT_FILE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-valuacion"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Input: InputConfig{
			MovementsFiles: getList(v, "MOVEMENTS_FILES"),
			SnapshotFile:   getString(v, "SNAPSHOT_FILE", ""),
			ChunkSize:      getInt(v, "CHUNK_SIZE", DefaultChunkSize),
			DateLayout:     getString(v, "DATE_LAYOUT", DefaultDateLayout),
			Encoding:       getString(v, "INPUT_ENCODING", "utf-8"),
		},
		Output: OutputConfig{
			File:    getString(v, "OUTPUT_FILE", DefaultOutputFile),
			Format:  strings.ToLower(getString(v, "OUTPUT_FORMAT", "csv")),
			PDFFile: getString(v, "REPORT_PDF_FILE", ""),
		},
		Valuation: ValuationConfig{
			Strict:        getBool(v, "VALUATION_STRICT", false),
			TraceSKU:      getString(v, "TRACE_SKU", ""),
			TraceLocation: getString(v, "TRACE_LOCATION", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventario"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			MaxUploadMB: getInt(v, "MAX_UPLOAD_MB", 64),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica los valores que no admiten defecto silencioso.
func (c *Config) Validate() error {
	if c.Input.ChunkSize <= 0 {
		return fmt.Errorf("config: CHUNK_SIZE debe ser positivo (%d)", c.Input.ChunkSize)
	}
	switch c.Output.Format {
	case "csv", "xml":
	default:
		return fmt.Errorf("config: OUTPUT_FORMAT no soportado %q", c.Output.Format)
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_MB debe ser positivo (%d)", c.HTTP.MaxUploadMB)
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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
		return v.GetBool(key)
	}
	return def
}

// getList lee una lista separada por comas.
func getList(v *viper.Viper, key string) []string {
	raw := getString(v, key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"invitefeed/pkg/tz"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	TransportPostgres  = "postgres"
	TransportWebSocket = "websocket"
)

type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Storage        string
	PushTransport  string
	PushWSURL      string
	ResyncCron     string
	Timezone       string
	Locale         string
	LogLevel       slog.Level
	ViewerID       string
	DiscordToken   string
	GuildID        string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}
	return FromEnv(os.Getenv)
}

// FromEnv construit la configuration à partir d'une fonction de lecture des variables.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH"),
		Storage:        strings.ToLower(strings.TrimSpace(getenv("STORAGE"))),
		PushTransport:  strings.ToLower(strings.TrimSpace(getenv("PUSH_TRANSPORT"))),
		PushWSURL:      getenv("PUSH_WS_URL"),
		ResyncCron:     getenv("RESYNC_CRON"),
		Timezone:       getenv("TIMEZONE"),
		Locale:         getenv("LOCALE"),
		ViewerID:       strings.TrimSpace(getenv("VIEWER_ID")),
		DiscordToken:   strings.TrimSpace(getenv("DISCORD_TOKEN")),
		GuildID:        strings.TrimSpace(getenv("GUILD_ID")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(orDefault(getenv("LOG_LEVEL"), "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL invalide: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	c.Storage = orDefault(c.Storage, StoragePostgres)
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("config: STORAGE doit valoir %q ou %q", StoragePostgres, StorageMemory)
	}

	if c.Storage == StoragePostgres {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
			c.DatabaseURL = "postgres://localhost:5432/invitefeed?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
		c.MigrationsPath = orDefault(c.MigrationsPath, "migrations")
	}

	// En mode mémoire les notifications viennent directement du store.
	if c.Storage == StorageMemory {
		c.PushTransport = ""
	} else {
		c.PushTransport = orDefault(c.PushTransport, TransportPostgres)
	}
	switch c.PushTransport {
	case "", TransportPostgres:
	case TransportWebSocket:
		u, err := url.Parse(c.PushWSURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("config: PUSH_WS_URL doit être une URL ws:// ou wss:// (%q)", c.PushWSURL)
		}
	default:
		return fmt.Errorf("config: PUSH_TRANSPORT inconnu (%q)", c.PushTransport)
	}

	c.ResyncCron = orDefault(c.ResyncCron, "*/15 * * * *")
	if _, err := cron.ParseStandard(c.ResyncCron); err != nil {
		return fmt.Errorf("config: RESYNC_CRON invalide (%q): %w", c.ResyncCron, err)
	}

	c.Timezone = orDefault(c.Timezone, tz.DefaultName)
	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE invalide: %w", err)
	}

	c.Locale = orDefault(c.Locale, "fr")

	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID doit être un ID de serveur Discord (chiffres uniquement)")
		}
	}

	return nil
}

// DiscordEnabled indique si la surface Discord doit démarrer.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

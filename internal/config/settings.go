package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/notify"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/sheets"
	"github.com/spf13/viper"
)

// Ledger backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Defaults for paths not set in the config file.
const (
	DefaultCatalogPath  = "report_list.csv"
	DefaultLedgerPath   = "report_history.csv"
	DefaultDatabasePath = "$HOME/.local/share/duecal/duecal.db"
)

// SetDefaults registers default values for every key duecal reads.
func SetDefaults() {
	viper.SetDefault("catalog.path", DefaultCatalogPath)
	viper.SetDefault("ledger.backend", BackendCSV)
	viper.SetDefault("ledger.path", DefaultLedgerPath)
	viper.SetDefault("database.path", DefaultDatabasePath)
	viper.SetDefault("schedule.overflow", string(schedule.OverflowClamp))
}

// CatalogPath returns the expanded report catalog path.
func CatalogPath() string {
	return ExpandPath(viper.GetString("catalog.path"))
}

// LedgerSettings holds where report status is persisted.
type LedgerSettings struct {
	Backend string
	Path    string
}

// Ledger returns the ledger backend and its expanded path.
func Ledger() (LedgerSettings, error) {
	backend := strings.ToLower(strings.TrimSpace(viper.GetString("ledger.backend")))
	switch backend {
	case "", BackendCSV:
		return LedgerSettings{Backend: BackendCSV, Path: ExpandPath(viper.GetString("ledger.path"))}, nil
	case BackendSQLite:
		return LedgerSettings{Backend: BackendSQLite, Path: ExpandPath(viper.GetString("database.path"))}, nil
	default:
		return LedgerSettings{}, fmt.Errorf("%w: ledger.backend %q (want csv or sqlite)", common.ErrInvalidConfig, backend)
	}
}

// Overflow returns the configured deadline overflow policy.
func Overflow() (schedule.OverflowPolicy, error) {
	policy, err := schedule.ParseOverflowPolicy(viper.GetString("schedule.overflow"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return policy, nil
}

// LoadNotifyConfig reads notify.* keys, then falls back to the SMTP_* and
// EMAIL_* variables (and a .env file) for anything left unset.
func LoadNotifyConfig() notify.Config {
	cfg := notify.DefaultConfig()

	cfg.Server = viper.GetString("notify.smtp_server")
	cfg.Sender = viper.GetString("notify.sender")
	cfg.Password = viper.GetString("notify.password")
	cfg.Recipient = viper.GetString("notify.recipient")
	cfg.Port = viper.GetInt("notify.smtp_port")
	if retries := viper.GetInt("notify.retries"); retries != 0 {
		cfg.Retries = retries
	}

	cfg.LoadFromEnv()
	return cfg
}

// LoadSheetsConfig loads Google Sheets configuration. Viper keys take
// precedence over GOOGLE_SHEETS_* variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(viper.GetString("sheets.service_account_path"))
	cfg.ClientID = viper.GetString("sheets.client_id")
	cfg.ClientSecret = viper.GetString("sheets.client_secret")
	cfg.RefreshToken = viper.GetString("sheets.refresh_token")
	cfg.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.timezone"); v != "" {
		cfg.TimeZone = v
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

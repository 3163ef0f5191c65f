package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Remote persistence API
	Remote RemoteConfig `yaml:"remote"`

	// Sender identity printed on invoices
	Sender SenderConfig `yaml:"sender"`

	// Email transport
	Mail MailConfig `yaml:"mail"`

	// Payment-link provider
	Payments PaymentsConfig `yaml:"payments"`

	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`
}

type RemoteConfig struct {
	BaseURL string `yaml:"base_url"` // Base URL of the persistence API
}

type SenderConfig struct {
	CompanyName  string `yaml:"company_name"`
	ContactName  string `yaml:"contact_name"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	AddressLine1 string `yaml:"address_line1"`
	AddressLine2 string `yaml:"address_line2"`
	LogoPath     string `yaml:"logo_path"` // Optional logo for the document header
}

type MailConfig struct {
	Endpoint string `yaml:"endpoint"` // Mail API send endpoint
	From     string `yaml:"from"`     // From address on outbound mail
}

type PaymentsConfig struct {
	Endpoint string `yaml:"endpoint"` // Payment-link provider endpoint
}

type InvoiceConfig struct {
	NumberPrefix   string `yaml:"number_prefix"`    // Invoice number prefix (e.g., "INV")
	DefaultDueDays int    `yaml:"default_due_days"` // Days until invoice due
	OutputDir      string `yaml:"output_dir"`       // Directory for downloaded PDFs
}

// DefaultConfigPath returns ~/.config/billdesk/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "billdesk", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "billdesk", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Remote: RemoteConfig{
			BaseURL: "http://localhost:8090/api",
		},
		Mail: MailConfig{
			Endpoint: "http://localhost:8090/api/mail/send",
		},
		Payments: PaymentsConfig{
			Endpoint: "http://localhost:8090/api/payments/link",
		},
		Invoice: InvoiceConfig{
			NumberPrefix:   "INV",
			DefaultDueDays: 30,
			OutputDir:      filepath.Join(homeDir, ".config", "billdesk", "invoices"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories the app writes into
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.Invoice.OutputDir, 0755)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by all the workflows. Values are taken from the defaults,
// then the YAML configuration file and finally HUBSPOT_* environment variables.
type Config struct {
	Token             string        `yaml:"token"               envconfig:"TOKEN"`
	Spreadsheet       string        `yaml:"spreadsheet"         envconfig:"SPREADSHEET"`
	BaseURL           string        `yaml:"base-url"            envconfig:"BASE_URL"`
	Timeout           time.Duration `yaml:"timeout"             envconfig:"TIMEOUT"`
	DeviceObjectType  string        `yaml:"device-object-type"  envconfig:"DEVICE_OBJECT_TYPE"`
	CompanyObjectType string        `yaml:"company-object-type" envconfig:"COMPANY_OBJECT_TYPE"`
	DealObjectType    string        `yaml:"deal-object-type"    envconfig:"DEAL_OBJECT_TYPE"`
	BatchSize         int           `yaml:"batch-size"          envconfig:"BATCH_SIZE"`
	BatchPause        time.Duration `yaml:"batch-pause"         envconfig:"BATCH_PAUSE"`
	SuccessMarker     string        `yaml:"success-marker"      envconfig:"SUCCESS_MARKER"`
	LogFile           string        `yaml:"log-file"            envconfig:"LOG_FILE"`
	LogFileMaxSize    int           `yaml:"log-file-max-size"   envconfig:"LOG_FILE_MAX_SIZE"`
	LogFileMaxAge     int           `yaml:"log-file-max-age"    envconfig:"LOG_FILE_MAX_AGE"`

	DeviceDates DeviceDates `yaml:"device-dates" ignored:"true"`
	Deals       Deals       `yaml:"deals"        ignored:"true"`
	Devices     Devices     `yaml:"devices"      ignored:"true"`
}

// DeviceDates configures the device date sync worksheet.
type DeviceDates struct {
	Sheet      string            `yaml:"sheet"`
	Headers    map[string]string `yaml:"headers"`
	Properties map[string]string `yaml:"properties"`
}

// Deals configures the deal sync worksheet.
type Deals struct {
	Sheet             string            `yaml:"sheet"`
	Headers           map[string]string `yaml:"headers"`
	Properties        map[string]string `yaml:"properties"`
	OverwriteLeaseEnd bool              `yaml:"overwrite-lease-end"`
}

// Devices configures the device id lookup worksheet.
type Devices struct {
	Sheet   string            `yaml:"sheet"`
	Headers map[string]string `yaml:"headers"`
}

// Logical column names.
const (
	DeviceID    = "device-id"
	Status      = "status"
	InstallDate = "install-date"
	LeaseEnd    = "lease-end"
	Leaser      = "leaser"
	Contract    = "contract-status"
	Duration    = "duration"
	Deal        = "deal"
	CompanyID   = "company-id"
	Client      = "client"
)

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		BaseURL:           "https://api.hubapi.com",
		Timeout:           30 * time.Second,
		DeviceObjectType:  "2-37633992",
		CompanyObjectType: "companies",
		DealObjectType:    "deals",
		BatchSize:         10,
		BatchPause:        200 * time.Millisecond,
		SuccessMarker:     "Traité",
		LogFileMaxSize:    10,
		LogFileMaxAge:     30,

		DeviceDates: DeviceDates{
			Sheet: "Sheet1",
			Headers: map[string]string{
				DeviceID:    "DeviceID",
				Status:      "Sync",
				InstallDate: "Date installatin",
				LeaseEnd:    "Fin leasing",
			},
			Properties: map[string]string{
				InstallDate: "date_de_livraison_effective__d_",
				LeaseEnd:    "date_de_fin_de_contrat_temporaire__d_",
			},
		},

		Deals: Deals{
			Sheet: "Sheet1",
			Headers: map[string]string{
				Leaser:      "Leaser",
				Contract:    "Statut",
				LeaseEnd:    "Fin leasing",
				Duration:    "Durée (Mois)",
				Deal:        "Id Transac ADV",
				CompanyID:   "Company ID (HS)",
				Status:      "Sync",
				Client:      "Clients",
				InstallDate: "Date installatin",
			},
			Properties: map[string]string{
				Leaser:   "leaser",
				Contract: "statut_du_contrat",
				Duration: "duree_maintenance_garantie",
				LeaseEnd: "date_de_fin_de_contrat",
				Client:   "nomenclature_adv_modifie",
			},
			OverwriteLeaseEnd: true,
		},

		Devices: Devices{
			Sheet: "Leasing",
			Headers: map[string]string{
				CompanyID: "Company ID (HS)",
				DeviceID:  "DeviceID",
				Status:    "Device Sync",
			},
		},
	}
}

// Load merges the YAML file at 'path' (if it exists) and then the environment into the
// configuration. A missing file is only an error if 'required' is set.
func (c *Config) Load(path string, required bool) error {
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil && (required || !errors.Is(err, fs.ErrNotExist)) {
			return fmt.Errorf("could not load configuration from %v (%w)", path, err)
		}

		if err == nil {
			if err := yaml.Unmarshal(bytes, c); err != nil {
				return fmt.Errorf("invalid configuration file %v (%w)", path, err)
			}
		}
	}

	if err := envconfig.Process("hubspot", c); err != nil {
		return fmt.Errorf("invalid environment configuration (%w)", err)
	}

	return nil
}

// Validate checks the keys every workflow depends on.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("missing HubSpot access token (set HUBSPOT_TOKEN or 'token' in the configuration file)")
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("invalid batch size %v", c.BatchSize)
	}

	if c.BatchPause < 0 {
		return fmt.Errorf("invalid batch pause %v", c.BatchPause)
	}

	if c.DeviceObjectType == "" || c.CompanyObjectType == "" || c.DealObjectType == "" {
		return fmt.Errorf("missing HubSpot object type")
	}

	if c.SuccessMarker == "" {
		return fmt.Errorf("missing success marker")
	}

	return nil
}

// Header returns the configured header for a logical column, failing on blank names.
func Header(headers map[string]string, key string) (string, error) {
	if h, ok := headers[key]; !ok || h == "" {
		return "", fmt.Errorf("no header configured for '%s'", key)
	} else {
		return h, nil
	}
}

package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DefaultTimeZone     = "Asia/Kolkata"
	DefaultNumberFormat = "{PREFIX}/{FY}/{SEQ3}"
)

// indiaStandardTime is used when the configured zone cannot be loaded.
var indiaStandardTime = time.FixedZone("IST", 5*60*60+30*60)

// CompanyConfig describes the selling business printed on every document
// and the policies that depend on it.
type CompanyConfig struct {
	Name      string      `mapstructure:"name"`
	Address   string      `mapstructure:"address"`
	GSTIN     string      `mapstructure:"gstin"`
	Phone     string      `mapstructure:"phone"`
	Email     string      `mapstructure:"email"`
	HomeState string      `mapstructure:"homeState"`
	Bank      BankDetails `mapstructure:"bank"`
	Prefixes  Prefixes    `mapstructure:"prefixes"`

	// TimeZone decides the calendar date, and so the financial year, of
	// a document. Dates are stored in UTC.
	TimeZone string `mapstructure:"timeZone"`
	// NumberFormat is the document number template. Tokens: {PREFIX},
	// {FY}, {YYYY}, {YY}, {MM}, {DD}, {SEQ} and {SEQn} (zero-padded to n).
	NumberFormat string `mapstructure:"numberFormat"`

	LowStockThreshold    int     `mapstructure:"lowStockThreshold"`
	QuotationValidity    string  `mapstructure:"quotationValidity"`
	InvoicePaymentTerms  string  `mapstructure:"invoicePaymentTerms"`
	PurchaseOrderGSTRate float64 `mapstructure:"purchaseOrderGstRate"`
	SignatoryLabel       string  `mapstructure:"signatoryLabel"`
}

type BankDetails struct {
	AccountName   string `mapstructure:"accountName"`
	AccountNumber string `mapstructure:"accountNumber"`
	BankName      string `mapstructure:"bankName"`
	IFSC          string `mapstructure:"ifsc"`
	Branch        string `mapstructure:"branch"`
}

type Prefixes struct {
	Invoice       string `mapstructure:"invoice"`
	Quotation     string `mapstructure:"quotation"`
	PurchaseOrder string `mapstructure:"purchaseOrder"`
}

func DefaultCompanyConfig() CompanyConfig {
	return CompanyConfig{
		Name:      "Fluid Flow Industries",
		HomeState: "tamilnadu",
		Prefixes: Prefixes{
			Invoice:       "FFI",
			Quotation:     "FFI",
			PurchaseOrder: "PO",
		},
		TimeZone:             DefaultTimeZone,
		NumberFormat:         DefaultNumberFormat,
		LowStockThreshold:    10,
		QuotationValidity:    "Valid for 30 days",
		InvoicePaymentTerms:  "Immediate",
		PurchaseOrderGSTRate: 5,
		SignatoryLabel:       "Authorised Signatory",
	}
}

type CompanyConfigHolder struct {
	current atomic.Value // holds CompanyConfig
}

// NewCompanyConfigHolder reads company.yml and keeps watching it. Missing
// files fall back to defaults; invalid edits are ignored.
func NewCompanyConfigHolder(cfg Config) (*CompanyConfigHolder, error) {
	v := viper.New()

	if path := strings.TrimSpace(cfg.CompanyConfigPath); path != "" {
		v.SetConfigFile(filepath.Clean(path))
	} else {
		v.SetConfigName("company")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/gstbilling")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("COMPANY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setCompanyDefaults(v, DefaultCompanyConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	current, err := decodeCompanyConfig(v)
	if err != nil {
		return nil, err
	}

	holder := &CompanyConfigHolder{}
	holder.current.Store(current)

	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeCompanyConfig(v)
			if err != nil {
				log.Printf("[company-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[company-config] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

// NewStaticCompanyConfigHolder returns a holder that never reloads.
func NewStaticCompanyConfigHolder(cfg CompanyConfig) *CompanyConfigHolder {
	holder := &CompanyConfigHolder{}
	holder.current.Store(withCompanyDefaults(cfg))
	return holder
}

// Location returns the business time zone, falling back to IST.
func (c CompanyConfig) Location() *time.Location {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return indiaStandardTime
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return indiaStandardTime
	}
	return loc
}

func (h *CompanyConfigHolder) Get() CompanyConfig {
	return h.current.Load().(CompanyConfig)
}

func setCompanyDefaults(v *viper.Viper, defaults CompanyConfig) {
	v.SetDefault("name", defaults.Name)
	v.SetDefault("homeState", defaults.HomeState)
	v.SetDefault("prefixes.invoice", defaults.Prefixes.Invoice)
	v.SetDefault("prefixes.quotation", defaults.Prefixes.Quotation)
	v.SetDefault("prefixes.purchaseOrder", defaults.Prefixes.PurchaseOrder)
	v.SetDefault("timeZone", defaults.TimeZone)
	v.SetDefault("numberFormat", defaults.NumberFormat)
	v.SetDefault("lowStockThreshold", defaults.LowStockThreshold)
	v.SetDefault("quotationValidity", defaults.QuotationValidity)
	v.SetDefault("invoicePaymentTerms", defaults.InvoicePaymentTerms)
	v.SetDefault("purchaseOrderGstRate", defaults.PurchaseOrderGSTRate)
	v.SetDefault("signatoryLabel", defaults.SignatoryLabel)
}

func decodeCompanyConfig(v *viper.Viper) (CompanyConfig, error) {
	var cfg CompanyConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return CompanyConfig{}, err
	}
	if err := validateCompanyConfig(cfg); err != nil {
		return CompanyConfig{}, err
	}
	return cfg, nil
}

func validateCompanyConfig(cfg CompanyConfig) error {
	if strings.TrimSpace(cfg.HomeState) == "" {
		return errors.New("homeState cannot be empty")
	}
	if strings.TrimSpace(cfg.Prefixes.Invoice) == "" || strings.TrimSpace(cfg.Prefixes.Quotation) == "" {
		return errors.New("document prefixes cannot be empty")
	}
	if strings.Contains(cfg.Prefixes.Invoice, "/") || strings.Contains(cfg.Prefixes.Quotation, "/") {
		return errors.New("document prefixes cannot contain '/'")
	}
	if zone := strings.TrimSpace(cfg.TimeZone); zone == "" {
		return errors.New("timeZone cannot be empty")
	} else if _, err := time.LoadLocation(zone); err != nil {
		return fmt.Errorf("timeZone %q is not an IANA zone such as Asia/Kolkata", zone)
	}
	if !strings.Contains(cfg.NumberFormat, "{SEQ") {
		return errors.New("numberFormat must contain a {SEQ} token")
	}
	if cfg.LowStockThreshold < 0 {
		return errors.New("lowStockThreshold cannot be negative")
	}
	if cfg.PurchaseOrderGSTRate < 0 {
		return errors.New("purchaseOrderGstRate cannot be negative")
	}
	return nil
}

func withCompanyDefaults(cfg CompanyConfig) CompanyConfig {
	defaults := DefaultCompanyConfig()
	if strings.TrimSpace(cfg.HomeState) == "" {
		cfg.HomeState = defaults.HomeState
	}
	if cfg.Prefixes.Invoice == "" {
		cfg.Prefixes.Invoice = defaults.Prefixes.Invoice
	}
	if cfg.Prefixes.Quotation == "" {
		cfg.Prefixes.Quotation = defaults.Prefixes.Quotation
	}
	if cfg.Prefixes.PurchaseOrder == "" {
		cfg.Prefixes.PurchaseOrder = defaults.Prefixes.PurchaseOrder
	}
	if strings.TrimSpace(cfg.TimeZone) == "" {
		cfg.TimeZone = defaults.TimeZone
	}
	if strings.TrimSpace(cfg.NumberFormat) == "" {
		cfg.NumberFormat = defaults.NumberFormat
	}
	if cfg.LowStockThreshold == 0 {
		cfg.LowStockThreshold = defaults.LowStockThreshold
	}
	if cfg.QuotationValidity == "" {
		cfg.QuotationValidity = defaults.QuotationValidity
	}
	if cfg.InvoicePaymentTerms == "" {
		cfg.InvoicePaymentTerms = defaults.InvoicePaymentTerms
	}
	if cfg.PurchaseOrderGSTRate == 0 {
		cfg.PurchaseOrderGSTRate = defaults.PurchaseOrderGSTRate
	}
	if cfg.SignatoryLabel == "" {
		cfg.SignatoryLabel = defaults.SignatoryLabel
	}
	return cfg
}

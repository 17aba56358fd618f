package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"
	"profit-forecast/internal/timeline"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML).
type Config struct {
	// Optional: load product economics from a separate YAML (e.g. examples/products/*.yaml).
	// If both ProductFile and Product are provided, non-zero Product fields override the file.
	ProductFile string           `yaml:"product_file"`
	Product     ProductConfig    `yaml:"product"`
	Overrides   OverridesConfig  `yaml:"overrides"`
	Snapshot    SnapshotConfig   `yaml:"snapshot"`
	Forecast    forecast.Options `yaml:"forecast"`
}

type ProductConfig struct {
	Name                 string  `yaml:"name"`
	AvailableStock       float64 `yaml:"available_stock"`
	SellingPrice         float64 `yaml:"selling_price"`
	PurchasePrice        float64 `yaml:"purchase_price"`
	BaseCPL              float64 `yaml:"base_cpl"`
	BaseConfirmationRate float64 `yaml:"base_confirmation_rate"`
	BaseDeliveryRate     float64 `yaml:"base_delivery_rate"`
}

// OverridesConfig holds the scheduled changes per lever.
type OverridesConfig struct {
	Advertising  []model.RateChange `yaml:"advertising"`
	Confirmation []model.RateChange `yaml:"confirmation"`
	Delivery     []model.RateChange `yaml:"delivery"`
	Price        []model.RateChange `yaml:"price"`
	Stock        []model.RateChange `yaml:"stock"`
}

// SnapshotConfig is the externally computed profit snapshot broadcast over
// the forecast.
type SnapshotConfig struct {
	Leads           float64 `yaml:"leads"`
	Profit          float64 `yaml:"profit"`
	CallCenterCost  float64 `yaml:"call_center_cost"`
	TotalExpenses   float64 `yaml:"total_expenses"`
	AdvertisingCost float64 `yaml:"advertising_cost"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.ProductFile != "" {
		productPath := c.ProductFile
		if !filepath.IsAbs(productPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), productPath)
			if _, err := os.Stat(cand); err == nil {
				productPath = cand
			}
		}
		loaded, err := LoadProductFile(productPath)
		if err != nil {
			return nil, err
		}
		c.Product = MergeProduct(loaded, c.Product)
	}
	return &c, nil
}

// ApplyDefaults fills the forecast horizon and worker count when unset.
// An all-zero snapshot is replaced by the one implied by the product itself.
func (c *Config) ApplyDefaults() {
	if c.Forecast.Days == 0 {
		c.Forecast.Days = forecast.DefaultDays
	}
	if c.Forecast.Workers == 0 {
		c.Forecast.Workers = 1
	}
	if c.Snapshot == (SnapshotConfig{}) {
		b := costmodel.Evaluate(c.Product.ToModelMetrics())
		c.Snapshot = SnapshotConfig{
			Leads:           b.Leads,
			Profit:          b.Profit,
			CallCenterCost:  b.CallCenter,
			TotalExpenses:   b.TotalCosts,
			AdvertisingCost: c.Product.BaseCPL,
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Forecast.Days < 0 {
		return errors.New("forecast.days must be >= 0")
	}
	if c.Forecast.Workers < 0 {
		return errors.New("forecast.workers must be >= 0")
	}
	if err := c.State().Validate(); err != nil {
		return fmt.Errorf("product config invalid: %w", err)
	}
	return nil
}

// State assembles the forecast input from the config. Override lists are
// returned sorted by day; equal days keep their file order.
func (c *Config) State() model.MetricsState {
	return timeline.Normalize(model.MetricsState{
		ProfitMetrics:       c.Product.ToModelMetrics(),
		AdvertisingChanges:  c.Overrides.Advertising,
		ConfirmationChanges: c.Overrides.Confirmation,
		DeliveryChanges:     c.Overrides.Delivery,
		PriceChanges:        c.Overrides.Price,
		StockChanges:        c.Overrides.Stock,
		Leads:               c.Snapshot.Leads,
		Profit:              c.Snapshot.Profit,
		CallCenterCost:      c.Snapshot.CallCenterCost,
		TotalExpenses:       c.Snapshot.TotalExpenses,
		AdvertisingCost:     c.Snapshot.AdvertisingCost,
	})
}

func (p ProductConfig) ToModelMetrics() model.ProfitMetrics {
	return model.ProfitMetrics{
		AvailableStock:       p.AvailableStock,
		SellingPrice:         p.SellingPrice,
		PurchasePrice:        p.PurchasePrice,
		BaseCPL:              p.BaseCPL,
		BaseConfirmationRate: p.BaseConfirmationRate,
		BaseDeliveryRate:     p.BaseDeliveryRate,
	}
}

type productFileWrapper struct {
	Product ProductConfig `yaml:"product"`
}

// LoadProductFile reads a preset file of the form `product: {...}`.
func LoadProductFile(path string) (ProductConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProductConfig{}, err
	}
	var w productFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ProductConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Product, nil
}

// MergeProduct overlays non-zero fields from override onto base.
// A zero in override never clears a preset value.
func MergeProduct(base, override ProductConfig) ProductConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.AvailableStock != 0 {
		out.AvailableStock = override.AvailableStock
	}
	if override.SellingPrice != 0 {
		out.SellingPrice = override.SellingPrice
	}
	if override.PurchasePrice != 0 {
		out.PurchasePrice = override.PurchasePrice
	}
	if override.BaseCPL != 0 {
		out.BaseCPL = override.BaseCPL
	}
	if override.BaseConfirmationRate != 0 {
		out.BaseConfirmationRate = override.BaseConfirmationRate
	}
	if override.BaseDeliveryRate != 0 {
		out.BaseDeliveryRate = override.BaseDeliveryRate
	}
	return out
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"profit-forecast/internal/api/models"
	"profit-forecast/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ProductHandler handles product preset requests
type ProductHandler struct {
	productDir string
}

// NewProductHandler creates a handler reading presets from dir. An empty dir
// resolves PRODUCT_DIR, then ./examples/products.
func NewProductHandler(dir string) *ProductHandler {
	if dir == "" {
		dir = os.Getenv("PRODUCT_DIR")
	}
	if dir == "" {
		dir = filepath.Join("examples", "products")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Info().Str("dir", dir).Msg("product presets")
	return &ProductHandler{productDir: dir}
}

// ProductDir returns the preset directory
func (h *ProductHandler) ProductDir() string {
	return h.productDir
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products := []models.ProductInfo{}

	entries, err := os.ReadDir(h.productDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", h.productDir).Msg("read product directory")
		c.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(h.productDir, entry.Name())
		info, err := loadProductInfo(path, entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping product preset")
			continue
		}
		products = append(products, *info)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func loadProductInfo(path, filename string) (*models.ProductInfo, error) {
	p, err := config.LoadProductFile(path)
	if err != nil {
		return nil, err
	}
	m := p.ToModelMetrics()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	// "serum.yaml" -> "serum"
	id := strings.TrimSuffix(filename, filepath.Ext(filename))
	name := p.Name
	if name == "" {
		name = id
	}
	return &models.ProductInfo{
		ID:      id,
		Name:    name,
		File:    path,
		Metrics: m,
	}, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

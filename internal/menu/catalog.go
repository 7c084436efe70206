package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wempy/storefront/internal/domain"
)

// noDescription is the placeholder the catalog uses for a missing description
const noDescription = "لا وصف"

// Catalog is the read-only product source
type Catalog interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Variants(ctx context.Context) ([]domain.Variant, error)
}

// Entry is a product as shown on the menu
type Entry struct {
	Product      domain.Product  `json:"product"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	Options      OptionSet       `json:"options"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// Section is one category of the menu
type Section struct {
	ID       string          `json:"id"`
	Category domain.Category `json:"category"`
	Entries  []Entry         `json:"entries"`
}

type Menu struct {
	Sections []Section   `json:"sections"`
	Local    []LocalItem `json:"local,omitempty"`
}

// SectionID is the category identifier stored on cart rows
func SectionID(categoryID int) string {
	return fmt.Sprintf("category-%d", categoryID)
}

// ImageURL resolves a catalog image path against the API root
func ImageURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Load assembles the menu. Catalog failures degrade to an empty menu or to
// sections without products; they are logged, never returned.
func Load(ctx context.Context, catalog Catalog, baseURL string, logger *zap.Logger) Menu {
	categories, err := catalog.Categories(ctx)
	if err != nil {
		logger.Error("Failed to load categories", zap.Error(err))
		return Menu{Sections: []Section{}}
	}
	if len(categories) == 0 {
		logger.Warn("No categories loaded")
		return Menu{Sections: []Section{}}
	}

	var (
		products []domain.Product
		variants []domain.Variant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := catalog.Products(gctx)
		if err != nil {
			logger.Error("Failed to load products", zap.Error(err))
			return nil
		}
		products = p
		return nil
	})
	g.Go(func() error {
		v, err := catalog.Variants(gctx)
		if err != nil {
			logger.Error("Failed to load product variants", zap.Error(err))
			return nil
		}
		variants = v
		return nil
	})
	_ = g.Wait()

	byProduct := make(map[int][]domain.Variant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	sections := make([]Section, 0, len(categories))
	for _, cat := range categories {
		section := Section{ID: SectionID(cat.CategoryID), Category: cat, Entries: []Entry{}}
		for _, p := range products {
			if p.CategoryID != cat.CategoryID {
				continue
			}
			options := BuildOptions(byProduct[p.ProductID])
			description := p.Description
			if description == noDescription {
				description = ""
			}
			section.Entries = append(section.Entries, Entry{
				Product:      p,
				Description:  description,
				ImageURL:     ImageURL(baseURL, p.ImageURL),
				Options:      options,
				DefaultPrice: options.DefaultPrice(),
			})
		}
		sections = append(sections, section)
	}

	return Menu{Sections: sections}
}

// Find returns the entry of a product and the section it is listed under
func (m Menu) Find(productID int) (Entry, Section, bool) {
	for _, s := range m.Sections {
		for _, e := range s.Entries {
			if e.Product.ProductID == productID {
				return e, s, true
			}
		}
	}
	return Entry{}, Section{}, false
}

// FindLocal returns a local item by id
func (m Menu) FindLocal(id string) (LocalItem, bool) {
	for _, item := range m.Local {
		if item.ID == id {
			return item, true
		}
	}
	return LocalItem{}, false
}

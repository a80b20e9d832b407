package executor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/matcher"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// Beverage synonyms favour products in a beverages category. No other
// category has a synonym table.
var (
	beverageCues     = []string{"coca", "bebida", "gaseosa"}
	beverageCategory = "bebida"
)

// errNoProduct is returned when neither the id nor the name resolves.
var errNoProduct = errors.New("no matching product")

func (e *Engine) adjustStock(ctx context.Context, a actions.AdjustStock) string {
	p, err := e.resolveProduct(ctx, a)
	if err != nil {
		line := fmt.Sprintf("No pude buscar el producto %s: %v", productRef(a), err)
		if errors.Is(err, errNoProduct) || errors.Is(err, backend.ErrNotFound) {
			line = fmt.Sprintf("No encontré el producto %s para ajustar el stock.", productRef(a))
		}
		return e.failed(line, err, "action", actions.KindAdjustStock, "product", productRef(a))
	}

	var next int
	if a.SetQuantity != nil {
		next = max(0, *a.SetQuantity)
	} else {
		next = max(0, p.Quantity+*a.Delta)
	}

	updated, err := e.backend.UpdateProduct(ctx, p.ID, models.ProductUpdate{Quantity: &next})
	if err != nil {
		return e.failed(fmt.Sprintf("No pude actualizar el stock de %s: %v", p.Name, err),
			err, "action", actions.KindAdjustStock, "product_id", p.ID)
	}
	return fmt.Sprintf("Stock de %s: %d → %d.", updated.Name, p.Quantity, updated.Quantity)
}

// resolveProduct looks the product up by id, then by fuzzy name.
func (e *Engine) resolveProduct(ctx context.Context, a actions.AdjustStock) (*models.Product, error) {
	if a.ProductID != nil {
		p, err := e.backend.GetProduct(ctx, *a.ProductID)
		if err == nil {
			return p, nil
		}
		if a.ProductName == "" || !errors.Is(err, backend.ErrNotFound) {
			return nil, err
		}
	}

	products, err := e.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	p, ok := bestProduct(a.ProductName, products)
	if !ok {
		return nil, fmt.Errorf("%q: %w", a.ProductName, errNoProduct)
	}
	return &p, nil
}

// bestProduct ranks products by name token overlap; when the query reads as a
// beverage, products in the beverages category get one extra matched token.
func bestProduct(query string, products []models.Product) (models.Product, bool) {
	norm := textnorm.Normalize(query)
	beverage := textnorm.ContainsAny(norm, beverageCues...)

	var (
		best  models.Product
		score matcher.Score
		found bool
	)
	for _, p := range products {
		s := matcher.ScoreName(norm, p.Name, matcher.QueryTokensInName)
		if beverage && textnorm.ContainsAny(textnorm.Normalize(p.Category), beverageCategory) {
			s.Matched++
			s.Total++
		}
		if s.Matched == 0 {
			continue
		}
		if !found || matcher.Compare(s, score) > 0 {
			best, score, found = p, s, true
		}
	}
	return best, found
}

func productRef(a actions.AdjustStock) string {
	if a.ProductName != "" {
		return "«" + a.ProductName + "»"
	}
	if a.ProductID != nil {
		return "#" + strconv.Itoa(*a.ProductID)
	}
	return "indicado"
}

func (e *Engine) increasePrices(ctx context.Context, a actions.IncreasePricesPercent) string {
	products, err := e.pricingScope(ctx, a.ProductIDs)
	if err != nil {
		return e.failed(fmt.Sprintf("No pude leer los productos para actualizar precios: %v", err),
			err, "action", actions.KindIncreasePricesPercent)
	}

	factor := 1 + a.Percent/100
	updated := 0
	for _, p := range products {
		price := math.Max(0, math.Round(p.Price*factor))
		if _, err := e.backend.UpdateProduct(ctx, p.ID, models.ProductUpdate{Price: &price}); err != nil {
			e.failed("", err, "action", actions.KindIncreasePricesPercent, "product_id", p.ID)
			continue
		}
		updated++
	}
	pct := strconv.FormatFloat(a.Percent, 'f', -1, 64)
	if a.Percent > 0 {
		pct = "+" + pct
	}
	return fmt.Sprintf("Precios actualizados (%s%%) en %d de %d productos.", pct, updated, len(products))
}

// pricingScope returns the explicit products, skipping unknown ids, or the
// whole catalogue when ids is empty.
func (e *Engine) pricingScope(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return e.backend.ListProducts(ctx)
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := e.backend.GetProduct(ctx, id)
		if err != nil {
			e.logger.Warn("skipping product in price update", "product_id", id, "error", err)
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// Package optimizer splits a shopping basket into the cheapest per-store
// shopping lists under discount-adjusted pricing.
package optimizer

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pricecomparator/market-service/internal/market"
)

// BasketOptimizer assigns each basket product to the store offering the
// lowest discount-adjusted unit price.
type BasketOptimizer struct {
	source  PriceSource
	config  *OptimizerConfig
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewBasketOptimizer creates a new basket optimizer.
func NewBasketOptimizer(source PriceSource, config *OptimizerConfig) *BasketOptimizer {
	return &BasketOptimizer{
		source:  source,
		config:  config,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "basket_optimizer").Logger(),
	}
}

// Optimize computes the cheapest split of the basket across stores.
//
// The basket multiset is collapsed to (productID, quantity) pairs keeping
// first-seen order. For each pair every store's as-of catalog is scanned in
// sorted store order; among stores carrying the product the strictly lowest
// discounted unit price wins, first found winning ties. Products found
// nowhere are reported in Missing and excluded from totals without aborting
// the rest of the basket.
func (o *BasketOptimizer) Optimize(req *OptimizeRequest) (*Result, error) {
	startTime := time.Now()
	defer func() {
		o.metrics.RecordOptimizationDuration(time.Since(startTime))
	}()

	if err := req.Validate(o.config); err != nil {
		return nil, err
	}

	entries := collapse(req.Basket)
	o.metrics.RecordBasketSize(len(entries))

	stores := o.source.Stores()
	result := &Result{Date: req.Date}

	// Store name -> its shopping list; storeOrder preserves the order in
	// which stores first won a product so grouping is reproducible.
	lists := make(map[string]*StoreList)
	var storeOrder []string

	for _, entry := range entries {
		line, store, found := o.bestLine(entry, req.Date, stores)
		if !found {
			o.metrics.RecordMissingProduct()
			result.Missing = append(result.Missing, entry.ProductID)
			o.logger.Debug().
				Str("product_id", entry.ProductID).
				Str("date", req.Date.String()).
				Msg("Product not found in any store")
			continue
		}

		list, ok := lists[store]
		if !ok {
			list = &StoreList{Store: store}
			lists[store] = list
			storeOrder = append(storeOrder, store)
		}
		list.Lines = append(list.Lines, line)
		list.Subtotal += line.LineTotal

		result.OriginalTotal += line.UnitListPrice * float64(line.Quantity)
		result.DiscountedTotal += line.LineTotal
	}

	for _, store := range storeOrder {
		result.Stores = append(result.Stores, lists[store])
	}
	result.Savings = result.OriginalTotal - result.DiscountedTotal

	o.metrics.RecordSavings(result.Savings)
	return result, nil
}

// bestLine finds the winning store and priced line for one basket entry.
func (o *BasketOptimizer) bestLine(entry basketEntry, date market.Date, stores []string) (*BasketLine, string, bool) {
	var best *BasketLine
	var bestStore string

	for _, store := range stores {
		product, ok := o.source.FindProduct(store, entry.ProductID, date)
		if !ok {
			continue
		}
		offer, ok := o.source.OfferAt(store, entry.ProductID, date)
		if !ok {
			continue
		}
		if best != nil && offer.Price >= best.UnitPrice {
			continue
		}
		best = &BasketLine{
			ProductID:       entry.ProductID,
			Name:            product.Name,
			Quantity:        entry.Quantity,
			UnitListPrice:   offer.ListPrice,
			UnitPrice:       offer.Price,
			DiscountPercent: offer.Percent,
			LineTotal:       offer.Price * float64(entry.Quantity),
			Currency:        product.Currency,
		}
		bestStore = store
	}

	if best == nil {
		return nil, "", false
	}
	return best, bestStore, true
}

package report

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/talkincode/bodega/internal/domain"
)

// Stats are the stock figures printed under the chart.
type Stats struct {
	Products       int             `json:"products"`
	Units          int             `json:"units"`
	MeanQuantity   float64         `json:"mean_quantity"`
	MedianQuantity float64         `json:"median_quantity"`
	StockValue     decimal.Decimal `json:"stock_value"`
}

// ComputeStats sums units and stock value over the snapshot. An empty
// snapshot yields zero figures.
func ComputeStats(products []domain.Product) Stats {
	st := Stats{Products: len(products), StockValue: decimal.Zero}
	if len(products) == 0 {
		return st
	}
	quantities := make(stats.Float64Data, 0, len(products))
	for _, p := range products {
		st.Units += p.Quantity
		quantities = append(quantities, float64(p.Quantity))
		line := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity)))
		st.StockValue = st.StockValue.Add(line)
	}
	st.MeanQuantity, _ = stats.Mean(quantities)
	st.MedianQuantity, _ = stats.Median(quantities)
	return st
}

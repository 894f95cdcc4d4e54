package pos

import "github.com/shopspring/decimal"

// ConsumptionRecord is one product's daily movement as reported by the
// provider's stock movement endpoint.
type ConsumptionRecord struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       string          `json:"product_sku"`
	ProductGroupName string          `json:"product_group_name"`
	BeginningQty     decimal.Decimal `json:"beginning_qty"`
	SumSalesQty      decimal.Decimal `json:"sum_sales_qty"`
	SumOutgoingQty   decimal.Decimal `json:"sum_outgoing_qty"`
}

// ExpectedOut is the total expected outflow for the record's date.
func (r ConsumptionRecord) ExpectedOut() decimal.Decimal {
	return r.SumSalesQty.Add(r.SumOutgoingQty)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type movementMeta struct {
	LastPage int `json:"last_page"`
}

type movementEnvelope struct {
	Data []ConsumptionRecord `json:"data"`
	Meta movementMeta        `json:"meta"`
}

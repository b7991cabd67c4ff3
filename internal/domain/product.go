package domain

// ProductImage is a single image attached to a catalog product.
type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Product is a catalog product as returned by the store backend. When the
// payload represents a selected variant, VariationID carries the variant key.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug,omitempty"`
	Description   string         `json:"description,omitempty"`
	Price         string         `json:"price"`
	RegularPrice  string         `json:"regular_price,omitempty"`
	SalePrice     string         `json:"sale_price,omitempty"`
	OnSale        bool           `json:"on_sale,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
	VariationID   *int64         `json:"variation_id,omitempty"`
	ManageStock   bool           `json:"manage_stock"`
	StockQuantity *int           `json:"stock_quantity"`
	StockStatus   string         `json:"stock_status,omitempty"`
	CategoryIDs   []int64        `json:"category_ids,omitempty"`
}

// LineItemFromProduct derives a cart line item from a product payload,
// snapshotting name, price, and thumbnail at add-time. Sale price is
// preferred over list price; a product with neither prices at "0".
// Quantity is left at zero; the cart sets it on insertion.
func LineItemFromProduct(p *Product) LineItem {
	price := p.SalePrice
	if price == "" {
		price = p.Price
	}
	if price == "" {
		price = "0"
	}

	name := p.Name
	if name == "" {
		name = "Unknown Product"
	}

	var image *string
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		src := p.Images[0].Src
		image = &src
	}

	var stock *int
	if p.ManageStock && p.StockQuantity != nil {
		n := *p.StockQuantity
		stock = &n
	}

	return LineItem{
		ProductID:     p.ID,
		VariationID:   p.VariationID,
		Name:          name,
		Price:         price,
		Image:         image,
		ManageStock:   p.ManageStock,
		StockQuantity: stock,
	}
}

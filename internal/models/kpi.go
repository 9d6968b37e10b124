package models

// WeekKPI aggregates post-campaign performance for one promo week.
// GrossMargin, Markdown and Retention14 stay at zero until markdown-cost and
// repeat-purchase tracking are built out.
type WeekKPI struct {
	Week        string  `json:"week" parquet:"name=week,type=BYTE_ARRAY,convertedtype=UTF8"`
	Units       int64   `json:"units" parquet:"name=units,type=INT64"`
	Revenue     float64 `json:"revenue" parquet:"name=revenue,type=DOUBLE"`
	Orders      int64   `json:"orders" parquet:"name=orders,type=INT64"`
	GrossMargin float64 `json:"gm" parquet:"name=gm,type=DOUBLE"`
	Markdown    float64 `json:"markdown" parquet:"name=markdown,type=DOUBLE"`
	Retention14 float64 `json:"retention14" parquet:"name=retention14,type=DOUBLE"`
}

// ProductUnits pairs a product with the units it sold post-promotion.
// Input to hero learning.
type ProductUnits struct {
	ProductID string `json:"product_id"`
	Units     int    `json:"units"`
}

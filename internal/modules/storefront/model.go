package storefront

import (
	"html/template"

	"github.com/hanumanlabs/storefront/internal/modules/cart"
	"github.com/hanumanlabs/storefront/internal/modules/catalog"
)

// ViewOptions selects the behaviours that used to differ between page variants.
type ViewOptions struct {
	CategoryMatchMode catalog.MatchMode
	ShowExport        bool
	ShowCopy          bool
}

// Layout names accepted by the view query parameter.
const (
	LayoutGrid  = "grid"
	LayoutTable = "table"
)

type page struct {
	Title     string
	CartCount int
	Error     string
}

type categoryOption struct {
	Name     string
	Selected bool
}

type sortOption struct {
	Key   catalog.SortKey
	Label string
}

var sortOptions = []sortOption{
	{catalog.SortRelevance, "Featured"},
	{catalog.SortName, "Name"},
	{catalog.SortPriceAsc, "Price: low to high"},
	{catalog.SortPriceDesc, "Price: high to low"},
	{catalog.SortSixMonth, "6-Month price"},
	{catalog.SortOneYear, "1-Year price"},
	{catalog.SortLifetime, "Lifetime price"},
	{catalog.SortDevices, "Devices"},
}

type productCard struct {
	*catalog.Product
	Plans       []catalog.PlanPrice
	MinPrice    string
	Purchasable bool
	CopyText    string
}

type catalogPage struct {
	page
	Options    ViewOptions
	Layout     string
	Query      catalog.Query
	Categories []categoryOption
	Sorts      []sortOption
	Plans      []catalog.Plan
	Products   []productCard
	ExportCSV  string
	ExportXLSX string
}

type cartPage struct {
	page
	Cart cart.View
}

type paymentPage struct {
	page
	OrderID    string
	Amount     string
	PaymentURL string
	QR         template.URL
}

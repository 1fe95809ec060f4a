package csvimport

// Field is one of the four semantic columns every inventory CSV must provide.
type Field string

const (
	FieldManufacturer Field = "manufacturer"
	FieldProductName  Field = "product_name"
	FieldUnitPrice    Field = "unit_price"
	FieldQuantity     Field = "quantity"
)

var allFields = []Field{FieldManufacturer, FieldProductName, FieldUnitPrice, FieldQuantity}

// dealerMappings lists header synonyms per dealer, in priority order. The
// tables are static configuration: adding a dealer means adding an entry
// here, not branching code.
var dealerMappings = map[string]map[Field][]string{
	"トヨタ": {
		FieldManufacturer: {"メーカー名", "manufacturer", "メーカー"},
		FieldProductName:  {"商品名", "product_name", "商品"},
		FieldUnitPrice:    {"単価", "unit_price", "価格", "サロン価格"},
		FieldQuantity:     {"数量", "quantity", "個数"},
	},
	"ホンダ": {
		FieldManufacturer: {"メーカー名", "manufacturer", "メーカー", "ブランド"},
		FieldProductName:  {"商品名", "product_name", "商品", "品名"},
		FieldUnitPrice:    {"単価", "unit_price", "価格", "販売価格"},
		FieldQuantity:     {"数量", "quantity", "個数", "入荷数"},
	},
	"日産": {
		FieldManufacturer: {"メーカー名", "manufacturer", "メーカー", "メーカーコード"},
		FieldProductName:  {"商品名", "product_name", "商品", "品名", "JANコード"},
		FieldUnitPrice:    {"単価", "unit_price", "価格", "希望小売価格"},
		FieldQuantity:     {"数量", "quantity", "個数", "入荷数"},
	},
	"マツダ": {
		FieldManufacturer: {"メーカー名", "manufacturer", "メーカー", "ブランド"},
		FieldProductName:  {"商品名", "product_name", "商品", "品名"},
		FieldUnitPrice:    {"単価", "unit_price", "価格", "サロン価格"},
		FieldQuantity:     {"数量", "quantity", "個数", "入荷数"},
	},
	"GAMO": {
		FieldManufacturer: {"メーカー名", "manufacturer", "メーカー", "ブランド"},
		FieldProductName:  {"商品名", "product_name", "商品", "品名"},
		FieldUnitPrice:    {"サロン価（税抜）", "サロン価格", "単価", "unit_price", "価格"},
		FieldQuantity:     {"数量", "quantity", "個数", "入荷数"},
	},
}

// defaultMapping covers dealers without a specific table, and fields a
// dealer table does not mention.
var defaultMapping = map[Field][]string{
	FieldManufacturer: {"メーカー名", "manufacturer", "メーカー", "ブランド", "メーカーコード"},
	FieldProductName:  {"商品名", "product_name", "商品", "品名", "JANコード"},
	FieldUnitPrice:    {"サロン価（税抜）", "サロン価格", "単価", "unit_price", "価格", "メーカー希望小売価格", "販売価格"},
	FieldQuantity:     {"数量", "quantity", "個数", "入荷数"},
}

// ResolveColumns maps each semantic field to a concrete header: the first
// synonym in the dealer's priority list that occurs among the headers wins,
// regardless of header order. A field with no match fails the whole
// resolution with a MissingColumnError.
func ResolveColumns(dealer string, headers []string) (map[Field]string, error) {
	available := make(map[string]bool, len(headers))
	for _, h := range headers {
		available[h] = true
	}

	mapping, ok := dealerMappings[dealer]
	if !ok {
		mapping = defaultMapping
	}

	resolved := make(map[Field]string, len(allFields))
	for _, field := range allFields {
		synonyms := mapping[field]
		if len(synonyms) == 0 {
			synonyms = defaultMapping[field]
		}
		for _, name := range synonyms {
			if available[name] {
				resolved[field] = name
				break
			}
		}
		if _, found := resolved[field]; !found {
			return nil, &MissingColumnError{Field: field, Available: headers}
		}
	}
	return resolved, nil
}

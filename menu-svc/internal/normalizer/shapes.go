package normalizer

type payloadShape string

const (
	shapeTable      payloadShape = "table"
	shapeArray      payloadShape = "array"
	shapeCategories payloadShape = "categories"
)

// shapes are tried in order; the first match wins.
var shapes = []struct {
	shape  payloadShape
	locate func(payload interface{}) ([]interface{}, bool)
}{
	{shape: shapeTable, locate: locateTable},
	{shape: shapeArray, locate: locateArray},
	{shape: shapeCategories, locate: locateCategoriesKey},
}

func locateCategories(payload interface{}) ([]interface{}, payloadShape, error) {
	for _, s := range shapes {
		if records, ok := s.locate(payload); ok {
			return records, s.shape, nil
		}
	}
	return nil, "", ErrUnrecognizedPayload
}

// locateTable matches {"table": [[category, ...], ...]}. An empty table is a
// menu with no categories.
func locateTable(payload interface{}) ([]interface{}, bool) {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return nil, false
	}
	table, ok := m["table"].([]interface{})
	if !ok {
		return nil, false
	}
	if len(table) == 0 {
		return []interface{}{}, true
	}
	first, ok := table[0].([]interface{})
	return first, ok
}

func locateArray(payload interface{}) ([]interface{}, bool) {
	records, ok := payload.([]interface{})
	return records, ok
}

func locateCategoriesKey(payload interface{}) ([]interface{}, bool) {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return nil, false
	}
	records, ok := m["categories"].([]interface{})
	return records, ok
}

type rawCategory struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Img         string `mapstructure:"img"`
	Tagline     string `mapstructure:"tagline"`
	Color       string `mapstructure:"color"`
}

type rawLevel2 struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Color    string `mapstructure:"color"`
	Img      string `mapstructure:"img"`
	ParentID string `mapstructure:"but_mast_id"`
}

type rawItem struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Price       float64  `mapstructure:"price"`
	Img         string   `mapstructure:"img"`
	Subcategory string   `mapstructure:"subcategory"`
	Tags        []string `mapstructure:"tags"`
	Rating      float64  `mapstructure:"rating"`
	IsPopular   bool     `mapstructure:"isPopular"`
	IsNew       bool     `mapstructure:"isNew"`
}

package domain

import "encoding/json"

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating"`
	IsPopular   bool     `json:"is_popular"`
	IsNew       bool     `json:"is_new"`
}

type Level2Category struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Img      string     `json:"img"`
	ParentID string     `json:"but_mast_id"`
	Items    []MenuItem `json:"items"`
}

// Category holds either Items or Level2Categories, never both.
type Category struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Image            string           `json:"image"`
	Tagline          string           `json:"tagline"`
	Color            string           `json:"color"`
	Items            []MenuItem       `json:"items,omitempty"`
	Level2Categories []Level2Category `json:"level2_categories,omitempty"`
}

// categoryJSON carries exactly one of items or level2_categories, even when
// the active list is empty.
type categoryJSON struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Image            string            `json:"image"`
	Tagline          string            `json:"tagline"`
	Color            string            `json:"color"`
	Items            *[]MenuItem       `json:"items,omitempty"`
	Level2Categories *[]Level2Category `json:"level2_categories,omitempty"`
}

func (c Category) MarshalJSON() ([]byte, error) {
	out := categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Tagline:     c.Tagline,
		Color:       c.Color,
	}
	if c.Nested() {
		level2 := c.Level2Categories
		out.Level2Categories = &level2
	} else {
		items := c.Items
		if items == nil {
			items = []MenuItem{}
		}
		out.Items = &items
	}
	return json.Marshal(out)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var in categoryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Category{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Tagline:     in.Tagline,
		Color:       in.Color,
	}
	switch {
	case in.Level2Categories != nil:
		c.Level2Categories = *in.Level2Categories
		if c.Level2Categories == nil {
			c.Level2Categories = []Level2Category{}
		}
	case in.Items != nil && *in.Items != nil:
		c.Items = *in.Items
	default:
		c.Items = []MenuItem{}
	}
	return nil
}

func (c Category) Nested() bool {
	return c.Level2Categories != nil
}

// AllItems flattens both category shapes into one list, keeping upstream order.
func (c Category) AllItems() []MenuItem {
	if !c.Nested() {
		return c.Items
	}
	var items []MenuItem
	for _, l2 := range c.Level2Categories {
		items = append(items, l2.Items...)
	}
	return items
}

type CategoryDetail struct {
	Category      Category   `json:"category"`
	Subcategories []string   `json:"subcategories"`
	Selected      []string   `json:"selected"`
	Items         []MenuItem `json:"items"`
	Total         int        `json:"total"`
}

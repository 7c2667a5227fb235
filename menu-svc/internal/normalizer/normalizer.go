// Package normalizer turns the POS menu download into the Category/MenuItem
// model served to clients.
//
// The POS payload has no published schema. Three envelopes are recognised
// (see shapes below) and one irregular category layout exists, where a
// category's level2 entries are sub-categories carrying their own items
// instead of being items themselves.
package normalizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gourmet-ordering/menu-svc/internal/domain"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

var ErrUnrecognizedPayload = errors.New("unrecognized POS payload shape")

const DefaultSubcategory = "general"

var fallbackImages = []string{
	"/pizza1.jpg",
	"/pizza2.jpg",
	"/cold-drinks.jpg",
	"/hot-drinks.jpg",
}

// Fetcher returns the raw POS payload.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type Normalizer struct {
	// NestedCategoryID, when set, selects the nested layout by category id
	// instead of by inspecting the record.
	NestedCategoryID string
	Log              logrus.FieldLogger
}

func New(nestedCategoryID string, log logrus.FieldLogger) *Normalizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Normalizer{NestedCategoryID: nestedCategoryID, Log: log}
}

// Parse decodes a raw POS payload. An empty category list is only returned
// when the payload really holds no categories; any other shape mismatch is
// ErrUnrecognizedPayload.
func (n *Normalizer) Parse(raw []byte) ([]domain.Category, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode POS payload: %w", err)
	}

	records, shape, err := locateCategories(payload)
	if err != nil {
		return nil, err
	}
	n.logger().WithFields(logrus.Fields{"shape": shape, "categories": len(records)}).Debug("POS payload recognised")
	return n.Normalize(records), nil
}

// FetchCategories never fails: fetch and parse errors are logged and an
// empty menu is returned, so callers cannot tell them apart from a menu
// with no categories.
func (n *Normalizer) FetchCategories(ctx context.Context, src Fetcher) []domain.Category {
	raw, err := src.Fetch(ctx)
	if err != nil {
		n.logger().WithError(err).Error("Failed to fetch menu data")
		return []domain.Category{}
	}
	categories, err := n.Parse(raw)
	if err != nil {
		n.logger().WithError(err).Error("API response is not in an expected format")
		return []domain.Category{}
	}
	return categories
}

// Normalize maps already located category records, preserving their order.
func (n *Normalizer) Normalize(records []interface{}) []domain.Category {
	p := &pass{n: n}
	categories := make([]domain.Category, 0, len(records))
	for i, rec := range records {
		m, ok := rec.(map[string]interface{})
		if !ok {
			n.logger().WithField("index", i).Warn("skipping non-object category record")
			continue
		}
		categories = append(categories, p.category(m))
	}
	return categories
}

func (n *Normalizer) logger() logrus.FieldLogger {
	if n.Log == nil {
		return logrus.StandardLogger()
	}
	return n.Log
}

// isNested reports whether a category record uses the two-level layout.
func (n *Normalizer) isNested(id string, level2 []interface{}, hasLevel2 bool) bool {
	if !hasLevel2 {
		return false
	}
	if n.NestedCategoryID != "" {
		return id == n.NestedCategoryID
	}
	for _, entry := range level2 {
		if m, ok := entry.(map[string]interface{}); ok {
			if _, ok := m["items"].([]interface{}); ok {
				return true
			}
		}
	}
	return false
}

// pass carries the state of one normalization run.
type pass struct {
	n          *Normalizer
	imageIndex int
}

func (p *pass) fallbackImage() string {
	img := fallbackImages[p.imageIndex%len(fallbackImages)]
	p.imageIndex++
	return img
}

func (p *pass) category(rec map[string]interface{}) domain.Category {
	var raw rawCategory
	p.decode(rec, &raw, "category")

	level2, hasLevel2 := rec["level2"].([]interface{})

	cat := domain.Category{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Color:       raw.Color,
	}

	if p.n.isNested(raw.ID, level2, hasLevel2) {
		cat.Level2Categories = make([]domain.Level2Category, 0, len(level2))
		for _, entry := range level2 {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			cat.Level2Categories = append(cat.Level2Categories, p.level2(raw.ID, m))
		}
	} else {
		entries := level2
		if !hasLevel2 {
			entries, _ = rec["items"].([]interface{})
		}
		cat.Items = make([]domain.MenuItem, 0, len(entries))
		for _, entry := range entries {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			cat.Items = append(cat.Items, p.item(raw.ID, "", m))
		}
	}

	// Item placeholders are handed out before the category's own.
	cat.Image = raw.Img
	if cat.Image == "" {
		cat.Image = p.fallbackImage()
	}
	cat.Tagline = raw.Tagline
	if cat.Tagline == "" {
		cat.Tagline = raw.Description
	}
	return cat
}

func (p *pass) level2(categoryID string, rec map[string]interface{}) domain.Level2Category {
	var raw rawLevel2
	p.decode(rec, &raw, "level2")

	l2 := domain.Level2Category{
		ID:       raw.ID,
		Name:     raw.Name,
		Color:    raw.Color,
		Img:      raw.Img,
		ParentID: raw.ParentID,
	}
	entries, _ := rec["items"].([]interface{})
	l2.Items = make([]domain.MenuItem, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		l2.Items = append(l2.Items, p.item(categoryID, raw.Name, m))
	}
	return l2
}

// item maps one upstream entry. A non-empty subcategory overrides whatever
// the entry carries.
func (p *pass) item(categoryID, subcategory string, rec map[string]interface{}) domain.MenuItem {
	var raw rawItem
	p.decode(rec, &raw, "item")

	item := domain.MenuItem{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
		Image:       raw.Img,
		Category:    categoryID,
		Subcategory: subcategory,
		Tags:        raw.Tags,
		Rating:      raw.Rating,
		IsPopular:   raw.IsPopular,
		IsNew:       raw.IsNew,
	}
	if item.Image == "" {
		item.Image = p.fallbackImage()
	}
	if item.Subcategory == "" {
		item.Subcategory = raw.Subcategory
	}
	if item.Subcategory == "" {
		item.Subcategory = DefaultSubcategory
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item
}

// decode fills out from rec, coercing numbers and strings as needed. Fields
// that fail to decode keep their zero value; the record itself is kept.
func (p *pass) decode(rec map[string]interface{}, out interface{}, kind string) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		p.n.logger().WithError(err).Error("building record decoder")
		return
	}
	if err := dec.Decode(rec); err != nil {
		p.n.logger().WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"id":   fmt.Sprint(rec["id"]),
		}).Warn("POS record partially decoded")
	}
}

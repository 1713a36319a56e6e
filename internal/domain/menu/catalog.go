package menu

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Catalog provides lookup, grouping, and search over the menu repository.
// Search is a client-side-style filter: it never fails on an empty result.
type Catalog struct {
	repo Repository
}

// NewCatalog creates a Catalog backed by the given repository.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// List returns every menu item.
func (c *Catalog) List(ctx context.Context) ([]Item, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return items, nil
}

// GetByID returns a single menu item.
func (c *Catalog) GetByID(ctx context.Context, id string) (*Item, error) {
	return c.repo.GetByID(ctx, id)
}

// Search filters items by a case-insensitive match against name and
// description. An empty query returns the full unfiltered list. A query
// matching nothing returns an empty slice, not an error.
func (c *Catalog) Search(ctx context.Context, query string) ([]Item, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return items, nil
	}

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ByCategory filters items to a single category. An empty category returns
// the full list.
func (c *Catalog) ByCategory(ctx context.Context, category string) ([]Item, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	if category == "" {
		return items, nil
	}

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Categories groups all items by their category field, preserving the order
// in which categories first appear in the catalog.
func (c *Catalog) Categories(ctx context.Context) ([]Category, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}

	index := make(map[string]int)
	categories := make([]Category, 0)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, Category{
				ID:   strings.ToLower(strings.ReplaceAll(item.Category, " ", "-")),
				Name: item.Category,
			})
		}
		categories[i].Items = append(categories[i].Items, item)
	}
	return categories, nil
}

package enum

import (
	"encoding/json"
	"fmt"
)

// ProductCategory is the fixed menu section a product belongs to.
type ProductCategory string

const (
	CategorySandwiches ProductCategory = "Sandwiches"
	CategorySides      ProductCategory = "Sides"
	CategoryDrinks     ProductCategory = "Drinks"
	CategorySnacks     ProductCategory = "Snacks"
)

// ProductCategories lists the categories in menu order.
func ProductCategories() []ProductCategory {
	return []ProductCategory{CategorySandwiches, CategorySides, CategoryDrinks, CategorySnacks}
}

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategorySandwiches, CategorySides, CategoryDrinks, CategorySnacks:
		return true
	}
	return false
}

func (c ProductCategory) String() string {
	return string(c)
}

func (c *ProductCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if !ProductCategory(str).IsValid() {
		return fmt.Errorf("unknown product category %q", str)
	}
	*c = ProductCategory(str)
	return nil
}

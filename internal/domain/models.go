package domain

import "fmt"

// Domain contains the market API payloads.

// Product mirrors the market product resource. Every field is nullable on the
// wire; unset fields are sent as null. ID is nil until the server assigns one.
type Product struct {
	ID            *int    `json:"id"`
	Title         *string `json:"title"`
	Price         *int    `json:"price"`
	CategoryTitle *string `json:"categoryTitle"`
}

// NewProduct builds a product without an id.
func NewProduct(title string, price int, categoryTitle string) Product {
	return Product{}.WithTitle(title).WithPrice(price).WithCategoryTitle(categoryTitle)
}

func (p Product) WithID(id int) Product {
	p.ID = &id
	return p
}

func (p Product) WithTitle(title string) Product {
	p.Title = &title
	return p
}

func (p Product) WithPrice(price int) Product {
	p.Price = &price
	return p
}

func (p Product) WithCategoryTitle(title string) Product {
	p.CategoryTitle = &title
	return p
}

// IDValue returns the server id and whether it is set.
func (p Product) IDValue() (int, bool) {
	if p.ID == nil {
		return 0, false
	}
	return *p.ID, true
}

// GetTitle returns the title or "" when null.
func (p Product) GetTitle() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// GetPrice returns the price or 0 when null.
func (p Product) GetPrice() int {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// GetCategoryTitle returns the category title or "" when null.
func (p Product) GetCategoryTitle() string {
	if p.CategoryTitle == nil {
		return ""
	}
	return *p.CategoryTitle
}

func (p Product) String() string {
	return fmt.Sprintf("Product(id=%s, title=%s, price=%s, categoryTitle=%s)",
		nullable(p.ID), nullable(p.Title), nullable(p.Price), nullable(p.CategoryTitle))
}

func nullable[T any](v *T) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprint(*v)
}

// Category is read-only from the client's side.
type Category struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Products []Product `json:"products,omitempty"`
}

// ErrorMessage is the body the server returns with non-2xx responses.
type ErrorMessage struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

package fixtures

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/samvad-hq/market-contract-tests/internal/domain"
)

// Factory produces products with realistic, collision-resistant field values.
type Factory struct {
	faker    *gofakeit.Faker
	category CategoryType
}

// NewFactory seeds a factory. Seed 0 draws a random seed.
func NewFactory(seed uint64, category CategoryType) *Factory {
	return &Factory{
		faker:    gofakeit.New(seed),
		category: category,
	}
}

// NewProduct returns a dish priced 100..199 in the factory category.
func (f *Factory) NewProduct() domain.Product {
	return domain.NewProduct(f.faker.Lunch(), f.faker.IntRange(100, 199), f.category.Title)
}

// UpdateFor returns a replacement payload for the product with the given id.
func (f *Factory) UpdateFor(id int) domain.Product {
	return domain.Product{}.
		WithID(id).
		WithCategoryTitle(f.category.Title).
		WithPrice(f.faker.IntRange(1, 1000)).
		WithTitle(f.faker.Fruit())
}

// LongTitle returns a string of n letters.
func (f *Factory) LongTitle(n uint) string {
	return f.faker.LetterN(n)
}

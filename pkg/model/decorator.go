package model

// Decorator enriches a page after it has been loaded, before rendering.
type Decorator interface {
	Decorate(*Page) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Page) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(page *Page) error {
	return fn(page)
}

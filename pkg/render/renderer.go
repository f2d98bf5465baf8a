package render

import (
	"context"

	"github.com/goliatone/go-authform/pkg/model"
)

// Renderer converts a Page plus the current UI state into a byte
// representation (HTML, terminal transcript, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}

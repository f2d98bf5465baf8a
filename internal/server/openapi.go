package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the embedded API description.
func OpenAPISpec() []byte {
	out := make([]byte, len(openAPISpec))
	copy(out, openAPISpec)
	return out
}

type requestValidator struct {
	router routers.Router
}

func newRequestValidator(ctx context.Context) (*requestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("server: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("server: invalid openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("server: openapi router: %w", err)
	}
	return &requestValidator{router: router}, nil
}

// Handler rejects API requests that do not match the documented operations.
func (v *requestValidator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, params, err := v.router.FindRoute(c.Request)
		if err != nil {
			status := http.StatusNotFound
			var routeErr *routers.RouteError
			if errors.As(err, &routeErr) && routeErr.Reason == routers.ErrMethodNotAllowed.Error() {
				status = http.StatusMethodNotAllowed
			}
			abortWithError(c, status, err.Error())
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			abortWithError(c, http.StatusBadRequest, requestErrorMessage(err))
			return
		}
		c.Next()
	}
}

func requestErrorMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Reason != "" {
		if reqErr.Parameter != nil {
			return fmt.Sprintf("parameter %q: %s", reqErr.Parameter.Name, reqErr.Reason)
		}
		return reqErr.Reason
	}
	return err.Error()
}

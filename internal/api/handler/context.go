package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/api/middleware"
	"github.com/sitecraft/website-builder/internal/core/domain"
)

// caller extracts the principal injected by the Auth middleware. Its absence
// means the route was mounted without Auth; treat it as unauthenticated.
func caller(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrTokenMissing
	}
	return *p, nil
}

// bind decodes and validates the request body. Both failures are validation errors.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

type messageResponse struct {
	Msg string `json:"msg"`
}

func invalidPayload() error {
	return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
}

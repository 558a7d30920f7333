package http

import (
	"fmt"
	"net/http"
	"strings"

	"orderdesk/internal/core/domain/model/kernel"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
)

const (
	operatorContextKey = "operator"

	HeaderOperator     = "X-Operator"
	HeaderOperatorName = "X-Operator-Name"
)

// OperatorConfig says where the acting operator comes from. Tokens are issued
// by the auth service; this service only reads them.
type OperatorConfig struct {
	JWTSecret   string
	TrustHeader bool
}

// OperatorIdentity reads the operator from a bearer JWT (sub and name claims,
// HS256) or, when trusted, from the X-Operator headers. Requests without an
// identity pass through; handlers that need one reject them.
func OperatorIdentity(cfg OperatorConfig) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok && len(secret) > 0 {
				op, err := operatorFromToken(strings.TrimSpace(token), secret)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				c.Set(operatorContextKey, op)
				return next(c)
			}

			if cfg.TrustHeader {
				if id := c.Request().Header.Get(HeaderOperator); id != "" {
					op, err := kernel.NewOperator(id, c.Request().Header.Get(HeaderOperatorName))
					if err != nil {
						return err
					}
					c.Set(operatorContextKey, op)
				}
			}
			return next(c)
		}
	}
}

func operatorFromToken(raw string, secret []byte) (kernel.Operator, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return kernel.Operator{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return kernel.Operator{}, fmt.Errorf("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	return kernel.NewOperator(sub, name)
}

// requireOperator returns the acting operator or 401.
func requireOperator(c echo.Context) (kernel.Operator, error) {
	op, ok := c.Get(operatorContextKey).(kernel.Operator)
	if !ok {
		return kernel.Operator{}, echo.NewHTTPError(http.StatusUnauthorized, "operator identity required")
	}
	return op, nil
}

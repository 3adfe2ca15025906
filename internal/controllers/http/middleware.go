package http

import (
	"strings"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	customerKey = "customer"
	tokenKey    = "token"
)

// AuthGuard resolves the bearer token to a customer and stores it on the
// context. Requests without a valid session stop here with 401.
func AuthGuard(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, domain.ErrUnauthorized)
			return
		}
		customer, err := auth.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(customerKey, customer)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentCustomer answers 401 and returns false when no customer was stored,
// which happens only on routes registered without AuthGuard.
func currentCustomer(c *gin.Context) (*domain.Customer, bool) {
	v, _ := c.Get(customerKey)
	customer, _ := v.(*domain.Customer)
	if customer == nil {
		respondError(c, domain.ErrUnauthorized)
		return nil, false
	}
	return customer, true
}

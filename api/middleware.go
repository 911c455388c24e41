package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xraph/fareledger/account"
)

const callerKey = "fareledger.caller"

// authenticate resolves the caller from the bearer token and aborts with
// 401 when it is missing or invalid.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		claims, err := s.tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}
		caller, err := claims.Caller()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func callerFrom(c *gin.Context) account.Address {
	v, ok := c.Get(callerKey)
	if !ok {
		return account.Zero
	}
	caller, _ := v.(account.Address)
	return caller
}

// refresh folds in journal entries appended by other writers before a read.
// A failed refresh is logged and the read is served from the last known
// state.
func (s *Server) refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.ledger.Refresh(c.Request.Context()); err != nil {
			s.logger.Warn("refresh before read failed", "path", c.FullPath(), "error", err)
		}
		c.Next()
	}
}

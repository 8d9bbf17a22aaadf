package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/response"
)

// Gateway headers carrying the authenticated account.
const (
	HeaderAccountID   = "X-Account-Id"
	HeaderAccountType = "X-Account-Type"
)

// AccountType is the role of the authenticated account.
type AccountType string

// Account types. Anonymous is used when no identity headers are present.
const (
	AccountMember    AccountType = "MEMBER"
	AccountCompany   AccountType = "COMPANY"
	AccountAnonymous AccountType = "ANONYMOUS"
)

const principalKey = "workmatch.principal"

// ErrUnknownAccount is returned by resolvers when the account has no profile.
var ErrUnknownAccount = errors.New("unknown account")

// Principal is the caller resolved from gateway headers.
type Principal struct {
	AccountID int64
	Type      AccountType
	MemberID  int64
	CompanyID int64
}

// Role is the casbin subject for the principal.
func (p Principal) Role() string {
	return string(p.Type)
}

// AccountResolver maps accounts to domain ids.
type AccountResolver interface {
	ResolveMember(ctx context.Context, accountID int64) (int64, error)
	ResolveCompany(ctx context.Context, accountID int64) (int64, error)
}

// Identity resolves X-Account-Id / X-Account-Type into a Principal. Requests
// without headers continue as anonymous; authorization decides what they may do.
func Identity(resolver AccountResolver, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(HeaderAccountID)
		rawType := c.GetHeader(HeaderAccountType)
		if rawID == "" && rawType == "" {
			SetPrincipal(c, Principal{Type: AccountAnonymous})
			c.Next()
			return
		}

		accountID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || accountID <= 0 {
			response.Error(c, "UNAUTHORIZED", "invalid account id", http.StatusUnauthorized)
			return
		}

		p := Principal{AccountID: accountID, Type: AccountType(rawType)}
		switch p.Type {
		case AccountMember:
			p.MemberID, err = resolver.ResolveMember(c.Request.Context(), accountID)
		case AccountCompany:
			p.CompanyID, err = resolver.ResolveCompany(c.Request.Context(), accountID)
		default:
			response.Error(c, "UNAUTHORIZED", "invalid account type", http.StatusUnauthorized)
			return
		}

		if err != nil {
			if errors.Is(err, ErrUnknownAccount) {
				response.Forbidden(c, "account has no profile")
				return
			}
			logger.Errorw("failed to resolve account", "account_id", accountID, "account_type", rawType, "error", err)
			response.Internal(c)
			return
		}

		SetPrincipal(c, p)
		c.Next()
	}
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the caller, or an anonymous principal.
func GetPrincipal(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{Type: AccountAnonymous}
}

// MemberID returns the calling member id.
func MemberID(c *gin.Context) (int64, bool) {
	p := GetPrincipal(c)
	return p.MemberID, p.Type == AccountMember && p.MemberID > 0
}

// CompanyID returns the calling company id.
func CompanyID(c *gin.Context) (int64, bool) {
	p := GetPrincipal(c)
	return p.CompanyID, p.Type == AccountCompany && p.CompanyID > 0
}

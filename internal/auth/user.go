package auth

import (
	"context"

	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type userKeyType struct{}

var (
	userKey userKeyType
)

// User is the authenticated caller. Role is the verified role used by the workflow guards.
type User struct {
	ID       uint
	Username string
	Role     workflow.Role
	Token    *jwt.Token
}

func UserFromContext(ctx context.Context) (User, bool) {
	val, ok := ctx.Value(userKey).(User)
	return val, ok
}

func MustHaveUser(ctx context.Context) User {
	user, found := UserFromContext(ctx)
	if !found {
		zap.S().Named("auth").Panic("failed to find user in context")
	}
	return user
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

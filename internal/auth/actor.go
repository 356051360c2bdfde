package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/milkdist/warehouse-backend/pkg/enums"
	pkgerrors "github.com/milkdist/warehouse-backend/pkg/errors"
)

type actorCtxKey struct{}

// Actor identifies the authenticated user performing an operation.
// Services take it explicitly rather than digging it out of the context
// themselves, so tests can pass one directly.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// CanMutate reports whether the actor may create, update, or delete records.
func (a Actor) CanMutate() bool {
	switch a.Role {
	case enums.UserRoleAdmin, enums.UserRoleManager, enums.UserRoleOperator:
		return true
	default:
		return false
	}
}

// WithActor stores the actor on the context for downstream handlers.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext returns the authenticated actor or an unauthorized error
// when the request never passed through the auth middleware.
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorCtxKey{}).(Actor)
	if !ok || actor.UserID == uuid.Nil {
		return Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated actor")
	}
	return actor, nil
}

package basesvc

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"videotube/internal/common"
)

// EnsureOwner returns a ForbiddenError unless actor and owner are the same identity.
func EnsureOwner(actor, owner primitive.ObjectID) error {
	if actor.IsZero() || actor.Hex() != owner.Hex() {
		return common.NewForbiddenError(common.MsgForbidden)
	}
	return nil
}

package basesvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/common"
)

// ToggleState is whether the toggled relation exists after a toggle.
type ToggleState string

const (
	StatePresent ToggleState = "present"
	StateAbsent  ToggleState = "absent"
)

// ToggleResult reports the state after a toggle; Document is set when the relation was created.
type ToggleResult[T any] struct {
	State    ToggleState `json:"state"`
	Document *T          `json:"document,omitempty"`
}

// Toggle deletes the document matching filter when there is one, otherwise inserts newDoc.
// Two concurrent creations race on the unique index; the loser gets a ConflictError.
func (s *BaseServiceMongoImpl[T]) Toggle(ctx context.Context, filter any, newDoc T) (ToggleResult[T], error) {
	raw, err := s.collection.FindOne(ctx, filter).Raw()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := s.InsertOne(ctx, newDoc)
		if err != nil {
			return ToggleResult[T]{}, err
		}
		return ToggleResult[T]{State: StatePresent, Document: &created}, nil
	case err != nil:
		return ToggleResult[T]{}, common.ConvertMongoError(err)
	}

	id := raw.Lookup("_id")
	if _, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return ToggleResult[T]{}, common.ConvertMongoError(err)
	}
	return ToggleResult[T]{State: StateAbsent}, nil
}

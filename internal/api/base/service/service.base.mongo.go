// Package basesvc provides the generic MongoDB service every domain service embeds.
package basesvc

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "videotube/internal/api/base/models"
	"videotube/internal/common"
	"videotube/internal/utility"
)

// UpdateData is a partial update expressed with MongoDB operators.
type UpdateData struct {
	Set      map[string]any `bson:"$set,omitempty"`
	Unset    map[string]any `bson:"$unset,omitempty"`
	Inc      map[string]any `bson:"$inc,omitempty"`
	Push     map[string]any `bson:"$push,omitempty"`
	AddToSet map[string]any `bson:"$addToSet,omitempty"`
	Pull     map[string]any `bson:"$pull,omitempty"`
}

// ToUpdateData converts data into UpdateData. Plain maps and structs become a $set.
func ToUpdateData(data any) (*UpdateData, error) {
	if update, ok := data.(*UpdateData); ok {
		return update, nil
	}
	if update, ok := data.(UpdateData); ok {
		return &update, nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}
	return &UpdateData{Set: dataMap}, nil
}

// BaseServiceMongo lists the record store operations shared by every collection.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter any, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindWithPagination(ctx context.Context, filter any, paging basemodels.Paging, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data any) (Model, error)
	UpdateOne(ctx context.Context, filter any, data any) (int64, error)
	UpdateMany(ctx context.Context, filter any, data any) (int64, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter any) (int64, error)
	CountDocuments(ctx context.Context, filter any) (int64, error)
	DocumentExists(ctx context.Context, filter any) (bool, error)
	Toggle(ctx context.Context, filter any, newDoc Model) (ToggleResult[Model], error)
}

// BaseServiceMongoImpl implements BaseServiceMongo over one collection.
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo returns a service bound to collection.
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection returns the underlying collection, for aggregation views.
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne stores data with fresh createdAt/updatedAt and an _id when it has none, and
// returns the stored document.
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	applyInsertDefaultsToModel(&data)

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	// Empty strings would collide on sparse unique indexes.
	for key, value := range dataMap {
		if strValue, ok := value.(string); ok && strValue == "" {
			delete(dataMap, key)
		}
	}

	if _, ok := dataMap["_id"]; !ok {
		dataMap["_id"] = primitive.NewObjectID()
	}
	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	if _, err := s.collection.InsertOne(ctx, dataMap); err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := utility.FromMap(dataMap, &created); err != nil {
		return zero, common.ErrInvalidFormat
	}
	return created, nil
}

// FindOne returns the first document matching filter, or ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (T, error) {
	var zero T
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find returns every document matching filter; never nil.
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter any, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// FindOneById returns the document with the given _id, or ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindWithPagination counts the matches of filter then fetches one page of them.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter any, paging basemodels.Paging, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}
	paging = basemodels.NewPaging(paging.Page, paging.Limit)
	opts.SetSkip(paging.Skip())
	opts.SetLimit(paging.Limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return basemodels.NewPaginateResult(items, total, paging), nil
}

// UpdateById applies data to the document with the given _id, bumps updatedAt and
// returns the updated document. A matched document whose values did not change is not
// an error.
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data any) (T, error) {
	var zero T

	updateData, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	stampUpdate(updateData)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateData, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return updated, nil
}

// UpdateOne applies data to the first document matching filter and returns how many
// documents matched (0 or 1).
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter any, data any) (int64, error) {
	updateData, err := ToUpdateData(data)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	stampUpdate(updateData)

	result, err := s.collection.UpdateOne(ctx, filter, updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.MatchedCount, nil
}

// UpdateMany applies data to every document matching filter and returns the modified count.
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter any, data any) (int64, error) {
	updateData, err := ToUpdateData(data)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	stampUpdate(updateData)

	result, err := s.collection.UpdateMany(ctx, filter, updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

func stampUpdate(update *UpdateData) {
	if update.Set == nil {
		update.Set = make(map[string]any)
	}
	update.Set["updatedAt"] = time.Now().UnixMilli()
}

// DeleteById removes the document with the given _id, or returns ErrNotFound.
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteMany removes every document matching filter and returns the deleted count.
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

// CountDocuments counts the documents matching filter.
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter any) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// DocumentExists reports whether any document matches filter.
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter any) (bool, error) {
	return Exists(ctx, s.collection, filter)
}

// Exists reports whether col holds a document matching filter. Services use it to check
// targets living in other collections.
func Exists(ctx context.Context, col *mongo.Collection, filter any) (bool, error) {
	if filter == nil {
		filter = bson.D{}
	}

	count, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return count > 0, nil
}

// applyInsertDefaultsToModel sets zero-valued fields carrying a `default` struct tag.
// ptr must point to a struct.
func applyInsertDefaultsToModel(ptr any) {
	if ptr == nil {
		return
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return
	}
	struc := v.Elem()
	if struc.Kind() != reflect.Struct {
		return
	}
	rt := struc.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		defaultStr, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		fieldVal := struc.Field(i)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		if val := parseDefaultValue(defaultStr, f.Type); val != nil {
			rv := reflect.ValueOf(val)
			if rv.Type().ConvertibleTo(fieldVal.Type()) {
				fieldVal.Set(rv.Convert(fieldVal.Type()))
			}
		}
	}
}

// parseDefaultValue converts a default tag to the field's kind (bool, ints, floats, string).
func parseDefaultValue(s string, t reflect.Type) any {
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil
		}
		return b
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f
	case reflect.String:
		return strings.TrimSpace(s)
	default:
		return nil
	}
}

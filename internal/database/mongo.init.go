package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"videotube/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections creates every named collection that does not exist yet.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	for _, name := range names {
		if present[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s does not exist, creating", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	logger.GetAppLogger().Infof("Collections ensured in database %s", db.Name())
	return nil
}

// indexSpec is one index derived from the `index` struct tags of a model.
type indexSpec struct {
	Name    string
	Keys    bson.D
	Unique  bool
	Sparse  bool
	TTL     *int32
	Partial bson.D
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	if len(s.Partial) > 0 {
		opts.SetPartialFilterExpression(s.Partial)
	}
	return opts
}

// parseIndexTag splits a tag such as "single:-1;compound:owner_created,order:-1" into
// one key/value map per ';' separated entry.
func parseIndexTag(tag string) []map[string]string {
	parts := strings.Split(tag, ";")
	result := []map[string]string{}

	for _, part := range parts {
		entry := map[string]string{}
		for _, subPart := range strings.Split(part, ",") {
			subPart = strings.TrimSpace(subPart)
			if subPart == "" {
				continue
			}
			kv := strings.SplitN(subPart, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}

	return result
}

// parseOrder reads the sort direction of an entry: "single:-1" or "order:-1" are descending.
func parseOrder(entry map[string]string) int {
	if entry["single"] == "-1" || entry["order"] == "-1" {
		return -1
	}
	return 1
}

// bsonFieldName returns the stored field name of a struct field, or "" when the field is not stored.
func bsonFieldName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("bson"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

// indexSpecs derives the indexes declared on model.
//
// Supported entries:
//   - single[:1|-1]          one-field index named <field>_single
//   - unique[,sparse]        one-field unique index named <field>_unique
//   - text                   text index named <field>_text
//   - ttl:<seconds>          TTL index named <field>_ttl
//   - compound:<group>       adds the field to compound index <group>; groups whose name
//     contains "_unique" are unique; "partial" adds {<field>: {$exists: true}} to the
//     group's partial filter
func indexSpecs(model any) ([]indexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := bsonFieldName(field)
		if bsonField == "" {
			continue
		}

		for _, entry := range parseIndexTag(tag) {
			if _, ok := entry["text"]; ok {
				specs = append(specs, indexSpec{
					Name: bsonField + "_text",
					Keys: bson.D{{Key: bsonField, Value: "text"}},
				})
			}

			if _, ok := entry["single"]; ok {
				specs = append(specs, indexSpec{
					Name: bsonField + "_single",
					Keys: bson.D{{Key: bsonField, Value: parseOrder(entry)}},
				})
			}

			if _, ok := entry["unique"]; ok {
				_, sparse := entry["sparse"]
				specs = append(specs, indexSpec{
					Name:   bsonField + "_unique",
					Keys:   bson.D{{Key: bsonField, Value: 1}},
					Unique: true,
					Sparse: sparse,
				})
			}

			if ttlValue, ok := entry["ttl"]; ok {
				ttl, err := strconv.Atoi(ttlValue)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl on %s: %w", bsonField, err)
				}
				seconds := int32(ttl)
				specs = append(specs, indexSpec{
					Name: bsonField + "_ttl",
					Keys: bson.D{{Key: bsonField, Value: 1}},
					TTL:  &seconds,
				})
			}

			if group, ok := entry["compound"]; ok {
				spec, exists := compound[group]
				if !exists {
					spec = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
				}
				spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: parseOrder(entry)})
				if _, sparse := entry["sparse"]; sparse {
					spec.Sparse = true
				}
				if _, partial := entry["partial"]; partial {
					spec.Partial = append(spec.Partial, bson.E{Key: bsonField, Value: bson.M{"$exists": true}})
				}
			}
		}
	}

	groups := make([]string, 0, len(compound))
	for group := range compound {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		specs = append(specs, *compound[group])
	}

	return specs, nil
}

// sameIndex reports whether an index listed by the server matches spec.
func sameIndex(existing bson.M, spec indexSpec) bool {
	var existingKeys bson.D
	switch keys := existing["key"].(type) {
	case bson.D:
		existingKeys = keys
	case bson.M:
		for k, v := range keys {
			existingKeys = append(existingKeys, bson.E{Key: k, Value: v})
		}
	default:
		return false
	}
	if len(existingKeys) != len(spec.Keys) {
		return false
	}

	for _, key := range spec.Keys {
		var existingValue any
		found := false
		for _, e := range existingKeys {
			if e.Key == key.Key {
				existingValue, found = e.Value, true
				break
			}
		}
		if !found {
			return false
		}

		newVal, isInt := key.Value.(int)
		if !isInt {
			if existingValue != key.Value {
				return false
			}
			continue
		}
		switch ev := existingValue.(type) {
		case int32:
			if int(ev) != newVal {
				return false
			}
		case int64:
			if int(ev) != newVal {
				return false
			}
		case float64:
			if int(ev) != newVal {
				return false
			}
		default:
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}

	_, hasPartial := existing["partialFilterExpression"]
	if hasPartial != (len(spec.Partial) > 0) {
		return false
	}

	if ttl, ok := existing["expireAfterSeconds"].(int32); ok && spec.TTL != nil && ttl != *spec.TTL {
		return false
	}

	return true
}

// CreateIndexes creates the indexes declared on model, replacing same-named indexes
// whose definition changed.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model any) error {
	log := logger.GetAppLogger().WithField("collection", collection.Name())

	specs, err := indexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("failed to decode index info: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	for _, spec := range specs {
		if existing, exists := existingIndexes[spec.Name]; exists {
			if sameIndex(existing, spec) {
				log.Debugf("Index %s is up to date", spec.Name)
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", spec.Name, err)
			}
			log.Infof("Dropped outdated index %s", spec.Name)
		}

		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    spec.Keys,
			Options: spec.options(),
		}); err != nil {
			return fmt.Errorf("failed to create index %s: %w", spec.Name, err)
		}
		log.Infof("Created index %s", spec.Name)
	}

	return nil
}

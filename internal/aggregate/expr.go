package aggregate

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field returns the "$name" path expression for a field.
func Field(name string) string {
	return "$" + name
}

// Size is {$size: expr}.
func Size(expr any) bson.D {
	return bson.D{{Key: "$size", Value: expr}}
}

// In is {$in: [value, array]}.
func In(value, array any) bson.D {
	return bson.D{{Key: "$in", Value: bson.A{value, array}}}
}

// Cond is {$cond: {if, then, else}}.
func Cond(cond, then, otherwise any) bson.D {
	return bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: cond},
		{Key: "then", Value: then},
		{Key: "else", Value: otherwise},
	}}}
}

// First is {$first: expr}.
func First(expr any) bson.D {
	return bson.D{{Key: "$first", Value: expr}}
}

// IfNull is {$ifNull: [expr, fallback]}.
func IfNull(expr, fallback any) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{expr, fallback}}}
}

// Sum is {$sum: expr}.
func Sum(expr any) bson.D {
	return bson.D{{Key: "$sum", Value: expr}}
}

// Regex matches values containing text, case-insensitively. Regex metacharacters in
// text are escaped.
func Regex(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

// Exists is {$exists: true}.
func Exists() bson.D {
	return bson.D{{Key: "$exists", Value: true}}
}

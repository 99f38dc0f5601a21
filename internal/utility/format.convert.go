package utility

import (
	"fmt"
	"strings"

	"videotube/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatBytes renders a byte count as B, KB, MB...
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseObjectID parses a hex identifier, naming the offending field on failure.
func ParseObjectID(field, id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationObjectID,
			fmt.Sprintf("Invalid %s", field),
			common.StatusBadRequest,
			map[string]string{"field": field, "value": id},
		)
	}
	return objectID, nil
}

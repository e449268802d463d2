package services

import (
	"fmt"

	"github.com/google/uuid"
)

func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return parsed, nil
}

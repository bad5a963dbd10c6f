// internal/models/id_type.go
package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDType is one configured document type the capture flow accepts.
type IDType struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code              string             `bson:"code" json:"code"`
	Name              string             `bson:"name" json:"name"`
	Enabled           bool               `bson:"enabled" json:"enabled"`
	RequiresBack      bool               `bson:"requiresBack" json:"requiresBack"`
	UsesEthiopianDate bool               `bson:"usesEthiopianDate" json:"usesEthiopianDate"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

var idTypeCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)

type UpsertIDTypeRequest struct {
	Code              string `json:"code" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Enabled           *bool  `json:"enabled,omitempty"`
	RequiresBack      bool   `json:"requiresBack"`
	UsesEthiopianDate bool   `json:"usesEthiopianDate"`
}

func (r *UpsertIDTypeRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	r.Name = strings.TrimSpace(r.Name)

	if r.Code == "" {
		return errors.New("code is required")
	}
	if !idTypeCodePattern.MatchString(r.Code) {
		return errors.New("code must be lowercase snake_case, 2-32 characters")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

type IDTypeListResponse struct {
	Message string   `json:"message"`
	IDTypes []IDType `json:"idTypes"`
	Total   int      `json:"total"`
}

type IDTypeResponse struct {
	Message string  `json:"message"`
	IDType  *IDType `json:"idType"`
}

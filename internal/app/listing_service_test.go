package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"propertyhub/internal/model"
)

func TestCreateListingValidation(t *testing.T) {
	svc := NewListingService(nil, zerolog.Nop())

	tests := []struct {
		name    string
		listing model.Listing
	}{
		{name: "missing make", listing: model.Listing{Model: "Golf", Year: 2020, PricePence: 1}},
		{name: "missing model", listing: model.Listing{Make: "VW", Year: 2020, PricePence: 1}},
		{name: "zero year", listing: model.Listing{Make: "VW", Model: "Golf", PricePence: 1}},
		{name: "free car", listing: model.Listing{Make: "VW", Model: "Golf", Year: 2020}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := tt.listing
			err := svc.Create(context.Background(), &listing)
			assert.ErrorIs(t, err, ErrInvalidInput, "bad input never reaches the repository")
		})
	}
}

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyhub/internal/platform/rightmove"
)

type fakeLookup struct {
	lastPostcode string
	result       *rightmove.LookupResult
	err          error
}

func (f *fakeLookup) LookupPostcode(_ context.Context, postcode string) (*rightmove.LookupResult, error) {
	f.lastPostcode = postcode
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "canonical", input: "SW1A 1AA", want: "SW1A 1AA", ok: true},
		{name: "lowercase no space", input: "sw1a1aa", want: "SW1A 1AA", ok: true},
		{name: "short outward", input: "M1 1AE", want: "M1 1AE", ok: true},
		{name: "surrounding whitespace", input: "  b33 8th ", want: "B33 8TH", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "not a postcode", input: "hello", ok: false},
		{name: "digits only", input: "12345", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePostcode(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidPostcode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupPostcodeNormalizesBeforeCalling(t *testing.T) {
	lookup := &fakeLookup{
		result: &rightmove.LookupResult{
			Postcode: "SW1A 1AA",
			Properties: []rightmove.PropertyRecord{
				{AddressLine: "1 Example Street", Bedrooms: 3},
			},
		},
	}
	svc := NewPropertyService(nil, lookup, 1024, zerolog.Nop())

	result, err := svc.LookupPostcode(context.Background(), "sw1a1aa")
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", lookup.lastPostcode)
	require.Len(t, result.Properties, 1)
}

func TestLookupPostcodeRejectsInvalidInput(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewPropertyService(nil, lookup, 1024, zerolog.Nop())

	_, err := svc.LookupPostcode(context.Background(), "not-a-postcode")
	assert.ErrorIs(t, err, ErrInvalidPostcode)
	assert.Empty(t, lookup.lastPostcode, "upstream is never called with bad input")
}

func TestLookupPostcodePropagatesUpstreamError(t *testing.T) {
	upstreamErr := errors.New("upstream timeout")
	svc := NewPropertyService(nil, &fakeLookup{err: upstreamErr}, 1024, zerolog.Nop())

	_, err := svc.LookupPostcode(context.Background(), "SW1A 1AA")
	assert.ErrorIs(t, err, upstreamErr)
}

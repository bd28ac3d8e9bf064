package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"propertyhub/internal/model"
	"propertyhub/internal/platform/rightmove"
	"propertyhub/internal/repository"
)

var (
	ErrInvalidPostcode  = errors.New("invalid postcode")
	ErrEnquiryNotFound  = errors.New("property enquiry not found")
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
)

// ukPostcodePattern accepts the standard UK outward+inward format, with or
// without the separating space.
var ukPostcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}$`)

// PropertyLookup is the upstream postcode data source.
type PropertyLookup interface {
	LookupPostcode(ctx context.Context, postcode string) (*rightmove.LookupResult, error)
}

type PropertyService struct {
	repo     *repository.PropertyRepository
	lookup   PropertyLookup
	maxDocKB int
	log      zerolog.Logger
}

func NewPropertyService(
	repo *repository.PropertyRepository,
	lookup PropertyLookup,
	maxDocumentSizeKB int,
	log zerolog.Logger,
) *PropertyService {
	return &PropertyService{
		repo:     repo,
		lookup:   lookup,
		maxDocKB: maxDocumentSizeKB,
		log:      log.With().Str("service", "property").Logger(),
	}
}

// LookupPostcode normalizes and validates the postcode, then fetches the
// matching property records from the upstream data provider.
func (s *PropertyService) LookupPostcode(ctx context.Context, postcode string) (*rightmove.LookupResult, error) {
	normalized, err := NormalizePostcode(postcode)
	if err != nil {
		return nil, err
	}
	result, err := s.lookup.LookupPostcode(ctx, normalized)
	if err != nil {
		s.log.Error().Err(err).Str("postcode", normalized).Msg("postcode lookup failed")
		return nil, err
	}
	return result, nil
}

// CreateEnquiryInput is the intake wizard's submission payload.
type CreateEnquiryInput struct {
	UserID        uint
	Postcode      string
	AddressLine   string
	PropertyType  string
	Bedrooms      int
	TenureType    string
	EstimateValue int64
}

func (s *PropertyService) CreateEnquiry(ctx context.Context, input CreateEnquiryInput) (*model.PropertyEnquiry, error) {
	normalized, err := NormalizePostcode(input.Postcode)
	if err != nil {
		return nil, err
	}
	enquiry := &model.PropertyEnquiry{
		UserID:        input.UserID,
		Postcode:      normalized,
		AddressLine:   strings.TrimSpace(input.AddressLine),
		PropertyType:  strings.TrimSpace(input.PropertyType),
		Bedrooms:      input.Bedrooms,
		TenureType:    strings.TrimSpace(input.TenureType),
		EstimateValue: input.EstimateValue,
	}
	if err := s.repo.CreateEnquiry(enquiry); err != nil {
		return nil, err
	}
	return enquiry, nil
}

// UploadDocumentInput carries one base64-encoded supporting document.
type UploadDocumentInput struct {
	EnquiryID   uint
	FileName    string
	ContentType string
	DataBase64  string
}

// UploadDocument validates the payload against the configured size limit and
// attaches it to an existing enquiry. The data stays base64-encoded at rest.
func (s *PropertyService) UploadDocument(ctx context.Context, input UploadDocumentInput) (*model.PropertyDocument, error) {
	if input.FileName == "" || input.DataBase64 == "" {
		return nil, ErrInvalidInput
	}

	enquiry, err := s.repo.GetEnquiryByID(input.EnquiryID)
	if err != nil {
		return nil, err
	}
	if enquiry == nil {
		return nil, ErrEnquiryNotFound
	}

	decoded, err := base64.StdEncoding.DecodeString(input.DataBase64)
	if err != nil {
		return nil, fmt.Errorf("decode document payload failed: %w", ErrInvalidInput)
	}
	if len(decoded) > s.maxDocKB*1024 {
		return nil, ErrDocumentTooLarge
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := &model.PropertyDocument{
		EnquiryID:   input.EnquiryID,
		FileName:    input.FileName,
		ContentType: contentType,
		SizeBytes:   int64(len(decoded)),
		DataBase64:  input.DataBase64,
	}
	if err := s.repo.CreateDocument(doc); err != nil {
		return nil, err
	}
	s.log.Info().Uint("enquiry_id", input.EnquiryID).
		Str("file_name", input.FileName).
		Int64("size_bytes", doc.SizeBytes).
		Msg("document uploaded")
	return doc, nil
}

func (s *PropertyService) ListDocuments(ctx context.Context, enquiryID uint) ([]model.PropertyDocument, error) {
	enquiry, err := s.repo.GetEnquiryByID(enquiryID)
	if err != nil {
		return nil, err
	}
	if enquiry == nil {
		return nil, ErrEnquiryNotFound
	}
	return s.repo.ListDocumentsByEnquiryID(enquiryID)
}

// NormalizePostcode uppercases the postcode and inserts the canonical single
// space before the inward code.
func NormalizePostcode(postcode string) (string, error) {
	trimmed := strings.TrimSpace(postcode)
	if !ukPostcodePattern.MatchString(trimmed) {
		return "", ErrInvalidPostcode
	}
	compact := strings.ToUpper(strings.ReplaceAll(trimmed, " ", ""))
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:], nil
}

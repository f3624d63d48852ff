package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
	"github.com/grosnap/backend/internal/telemetry"
)

// ExtractResult holds the text recognized from a shopping-list photo
type ExtractResult struct {
	RawText string
	Text    string
	Items   []string
}

// OCRService extracts shopping-list items from images.
// Nothing it produces is persisted.
type OCRService struct {
	provider domain.OCRProvider
	metrics  *metrics.Recorder
	logger   *zerolog.Logger
}

// NewOCRService creates a new OCR service
func NewOCRService(provider domain.OCRProvider, recorder *metrics.Recorder, logger *zerolog.Logger) *OCRService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OCRService{provider: provider, metrics: recorder, logger: logger}
}

// ExtractItems recognizes text in image and splits it into list items
func (s *OCRService) ExtractItems(ctx context.Context, image []byte) (*ExtractResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "OCRService.ExtractItems")
	defer span.End()

	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: OCR provider not configured", domain.ErrUpstreamFailure)
	}

	raw, err := s.provider.ExtractText(ctx, image)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpstreamError("ocr")
		}
		s.logger.Error().Err(err).Int("bytes", len(image)).Msg("Text recognition failed")
		if errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	text := CleanOCRText(raw)
	return &ExtractResult{
		RawText: raw,
		Text:    text,
		Items:   Tokenize(text),
	}, nil
}

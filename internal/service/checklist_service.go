package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"custodia/internal/database"
	"custodia/internal/domain"
	"custodia/internal/errs"
	"custodia/internal/events"
	"custodia/internal/metrics"
	"custodia/internal/models"
	"custodia/internal/pdf"
	"custodia/internal/qr"
	"custodia/internal/render"
)

// ChecklistData bundles everything the checklist views need: the booking,
// its enriched assets, the organization with its logo, and the rendered
// QR code per asset id.
type ChecklistData struct {
	Booking      *models.Booking
	Organization *models.Organization
	Assets       []*models.Asset
	QRCodes      map[string]qr.Code
}

// ChecklistService assembles booking checklist PDFs. All collaborators
// are injected so tests can substitute doubles for the database, the QR
// renderer and the browser.
type ChecklistService struct {
	store     domain.Store
	qrRes     qr.Resolver
	renderer  pdf.Renderer
	eventBus  domain.EventPublisher
	usage     domain.UsageRepository
	qrSize    qr.Size
	rateLimit int
	rateWin   time.Duration
	logger    *zerolog.Logger
}

func NewChecklistService(store domain.Store, qrRes qr.Resolver, renderer pdf.Renderer, eventBus domain.EventPublisher, usage domain.UsageRepository, qrSize qr.Size, logger *zerolog.Logger) *ChecklistService {
	return &ChecklistService{
		store:     store,
		qrRes:     qrRes,
		renderer:  renderer,
		eventBus:  eventBus,
		usage:     usage,
		qrSize:    qrSize,
		rateLimit: models.DefaultChecklistRateLimit,
		rateWin:   models.DefaultChecklistRateWindow * time.Second,
		logger:    logger,
	}
}

// FetchAndAuthorize retrieves the booking scoped to the organization and
// gates further processing on the requester's role. Self-service users
// may only reach bookings they custodian; everyone else passes. Asset and
// organization fetches run concurrently, then QR codes are resolved.
func (s *ChecklistService) FetchAndAuthorize(ctx context.Context, query domain.ChecklistQuery) (*ChecklistData, error) {
	booking, err := s.store.GetBookingByID(ctx, query.BookingID, query.OrganizationID)
	if err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			return nil, errs.NotFound(err, "booking", fmt.Sprintf("booking %s not found", query.BookingID))
		}
		return nil, err
	}

	// The 403 is an expected user-facing condition, never captured; it
	// fires before any asset or organization query is issued.
	if query.Role == models.RoleSelfService && booking.CustodianID != query.UserID {
		return nil, errs.Forbidden("booking", "you are not allowed to view this booking")
	}

	assetIDs, err := s.store.GetBookingAssetIDs(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	data := &ChecklistData{Booking: booking}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assets, err := s.store.GetAssetsByID(gctx, assetIDs, booking.Window())
		if err != nil {
			return err
		}
		data.Assets = assets
		return nil
	})
	g.Go(func() error {
		org, err := s.store.GetOrganization(gctx, query.OrganizationID)
		if err != nil {
			return err
		}
		data.Organization = org
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	codes, err := s.qrRes.ResolveForAssets(ctx, data.Assets, query.UserID, query.OrganizationID, s.qrSize)
	if err != nil {
		return nil, err
	}
	data.QRCodes = codes

	return data, nil
}

// GenerateChecklist runs the whole pipeline: fetch and authorize, build
// the body document and header fragment, render the PDF.
func (s *ChecklistService) GenerateChecklist(ctx context.Context, query domain.ChecklistQuery) ([]byte, error) {
	if err := s.checkRateLimit(ctx, query.UserID); err != nil {
		return nil, err
	}

	start := time.Now()

	data, err := s.FetchAndAuthorize(ctx, query)
	if err != nil {
		metrics.IncChecklist("rejected")
		return nil, err
	}

	body, err := render.BuildChecklist(render.ChecklistInput{
		Booking:      data.Booking,
		Organization: data.Organization,
		Assets:       data.Assets,
		QRCodes:      data.QRCodes,
		GeneratedAt:  start,
	})
	if err != nil {
		metrics.IncChecklist("error")
		return nil, err
	}

	header, err := render.BuildHeader(data.Organization, data.Booking)
	if err != nil {
		metrics.IncChecklist("error")
		return nil, err
	}

	pdfBytes, err := s.renderer.RenderHTML(ctx, body, pdf.Options{HeaderTemplate: header})
	if err != nil {
		metrics.IncChecklist("error")
		return nil, errs.New(err, http.StatusInternalServerError, "pdf", "failed to render checklist PDF")
	}

	dur := time.Since(start)
	metrics.ObserveChecklist("ok", dur)
	s.publishGenerated(query, data, len(pdfBytes), dur)
	s.logger.Info().
		Str("booking_id", query.BookingID).
		Int("assets", len(data.Assets)).
		Int("pdf_bytes", len(pdfBytes)).
		Dur("duration", dur).
		Msg("checklist generated")

	return pdfBytes, nil
}

func (s *ChecklistService) checkRateLimit(ctx context.Context, userID string) error {
	if s.usage == nil {
		return nil
	}
	ok, err := s.usage.CheckRateLimit(ctx, userID, s.rateLimit, s.rateWin)
	if err != nil {
		// Limiter outage must not block reads.
		s.logger.Warn().Err(err).Msg("rate limit check failed")
		return nil
	}
	if !ok {
		return errs.New(nil, http.StatusTooManyRequests, "rate-limit", "too many checklist requests, slow down")
	}
	return nil
}

func (s *ChecklistService) publishGenerated(query domain.ChecklistQuery, data *ChecklistData, size int, dur time.Duration) {
	if s.eventBus == nil {
		return
	}

	payload := events.ChecklistEventPayload{
		BookingID:      data.Booking.ID,
		BookingName:    data.Booking.Name,
		OrganizationID: query.OrganizationID,
		RequestedBy:    query.UserID,
		AssetCount:     len(data.Assets),
		PDFBytes:       size,
		Duration:       dur,
	}

	if err := s.eventBus.PublishJSON(events.EventChecklistGenerated, payload); err != nil {
		s.logger.Error().Err(err).Str("booking_id", data.Booking.ID).Msg("publish event error")
	}
}

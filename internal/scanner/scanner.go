package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/config"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
)

// Scanner discovers contact channels on business websites and upserts them
// as contacts. Each upsert is committed on its own, so a fetch failure later
// in a scan never discards earlier discoveries.
type Scanner struct {
	Businesses repository.BusinessRepositoryInterface
	Contacts   repository.ContactRepositoryInterface
	Client     *http.Client
	Logger     *zap.Logger
	UserAgent  string
	ScanDelay  time.Duration
}

func New(businesses repository.BusinessRepositoryInterface, contacts repository.ContactRepositoryInterface, cfg config.ScannerConfig, logger *zap.Logger) *Scanner {
	return &Scanner{
		Businesses: businesses,
		Contacts:   contacts,
		Client:     &http.Client{Timeout: cfg.FetchTimeout},
		Logger:     logger,
		UserAgent:  cfg.UserAgent,
		ScanDelay:  cfg.ScanDelay,
	}
}

// Scan fetches the business website and records every discovered contact.
// It reports success as a boolean: a fetch failure makes the whole scan
// fail and leaves the business status untouched.
func (s *Scanner) Scan(ctx context.Context, businessID int) bool {
	business, err := s.Businesses.GetByID(businessID)
	if err != nil {
		s.Logger.Error("scan: load business", zap.Int("business_id", businessID), zap.Error(err))
		return false
	}

	s.Logger.Info("scanning business", zap.Int("business_id", business.ID), zap.String("name", business.Name))

	if business.Website == "" {
		if website := s.discoverWebsite(business.Name, business.Address); website != "" {
			if err := s.Businesses.UpdateWebsite(business.ID, website); err != nil {
				s.Logger.Error("scan: persist discovered website", zap.Int("business_id", business.ID), zap.Error(err))
				return false
			}
			business.Website = website
		}
	}

	if business.Website != "" {
		pageURL, err := url.Parse(business.Website)
		if err != nil {
			s.Logger.Error("scan: invalid website URL", zap.String("website", business.Website), zap.Error(err))
			return false
		}

		doc, err := s.fetch(ctx, business.Website)
		if err != nil {
			s.Logger.Error("scan: fetch website", zap.String("website", business.Website), zap.Error(err))
			return false
		}

		for platform, urls := range ExtractSocialLinks(doc, pageURL) {
			for _, link := range urls {
				s.upsertContact(business.ID, platform, link)
			}
		}

		// Second pass over a fresh fetch; social contacts written above
		// stay committed even if this one fails.
		doc, err = s.fetch(ctx, business.Website)
		if err != nil {
			s.Logger.Error("scan: fetch website for contact info", zap.String("website", business.Website), zap.Error(err))
			return false
		}

		info := ExtractContactInfo(doc, pageURL)
		for _, email := range info.Emails {
			s.upsertContact(business.ID, model.ContactTypeEmail, email)
		}
		for _, phone := range info.Phones {
			s.upsertContact(business.ID, model.ContactTypePhone, phone)
		}
		for _, form := range info.ContactForms {
			s.upsertContact(business.ID, model.ContactTypeContactForm, form)
		}
	}

	if err := s.Businesses.UpdateStatus(business.ID, model.BusinessStatusScanned); err != nil {
		s.Logger.Error("scan: update business status", zap.Int("business_id", business.ID), zap.Error(err))
		return false
	}

	s.Logger.Info("scan complete", zap.Int("business_id", business.ID), zap.String("name", business.Name))
	return true
}

// ScanAllPending scans every business awaiting a scan, pausing between
// scans so target servers are not hammered. One business failing does not
// stop the batch. Returns the number of successful scans.
func (s *Scanner) ScanAllPending(ctx context.Context) int {
	return s.ScanAllPendingWithProgress(ctx, nil)
}

// ScanAllPendingWithProgress is ScanAllPending with a per-business progress
// callback for job reporting.
func (s *Scanner) ScanAllPendingWithProgress(ctx context.Context, progress func(current, total int)) int {
	pending, err := s.Businesses.ListByStatus(model.BusinessStatusPendingScan)
	if err != nil {
		s.Logger.Error("scan all pending: list businesses", zap.Error(err))
		return 0
	}

	scanned := 0
	for i, business := range pending {
		if progress != nil {
			progress(i+1, len(pending))
		}
		if s.Scan(ctx, business.ID) {
			scanned++
		}
		if i < len(pending)-1 {
			select {
			case <-ctx.Done():
				s.Logger.Warn("scan all pending: context cancelled", zap.Int("scanned", scanned))
				return scanned
			case <-time.After(s.ScanDelay):
			}
		}
	}

	s.Logger.Info("scan batch complete", zap.Int("scanned", scanned), zap.Int("pending", len(pending)))
	return scanned
}

// discoverWebsite would query a search API for businesses without a known
// website. No search integration is wired up, so discovery always misses.
func (s *Scanner) discoverWebsite(name, address string) string {
	s.Logger.Info("website discovery not available", zap.String("name", name), zap.String("address", address))
	return ""
}

func (s *Scanner) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// upsertContact inserts a scanned contact unless the (business, type, value)
// key already exists. Duplicates are silent no-ops; individual failures are
// logged and skipped so the rest of the scan proceeds.
func (s *Scanner) upsertContact(businessID int, contactType, value string) {
	exists, err := s.Contacts.Exists(businessID, contactType, value)
	if err != nil {
		s.Logger.Error("scan: contact lookup", zap.Int("business_id", businessID), zap.String("type", contactType), zap.Error(err))
		return
	}
	if exists {
		return
	}

	contact := &model.Contact{
		BusinessID: businessID,
		Type:       contactType,
		Value:      value,
		Source:     model.ContactSourceScannedSite,
	}
	if err := s.Contacts.Create(contact); err != nil {
		s.Logger.Error("scan: create contact", zap.Int("business_id", businessID), zap.String("type", contactType), zap.Error(err))
	}
}

package service_test

import (
	"fmt"
	"sort"
	"time"

	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
)

// In-memory repository stubs shared by the service tests.

type memBusinessRepo struct {
	businesses map[int]*model.Business
	nextID     int
}

func newMemBusinessRepo(businesses ...*model.Business) *memBusinessRepo {
	repo := &memBusinessRepo{businesses: map[int]*model.Business{}, nextID: 1}
	for _, b := range businesses {
		copied := *b
		if copied.ID == 0 {
			copied.ID = repo.nextID
		}
		repo.businesses[copied.ID] = &copied
		if copied.ID >= repo.nextID {
			repo.nextID = copied.ID + 1
		}
	}
	return repo
}

func (r *memBusinessRepo) Create(b *model.Business) error {
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now()
	if b.Status == "" {
		b.Status = model.BusinessStatusPendingScan
	}
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *memBusinessRepo) GetByID(id int) (*model.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, apperrors.NewNotFound("business", id)
	}
	copied := *b
	return &copied, nil
}

func (r *memBusinessRepo) GetByName(name string) (*model.Business, error) {
	for _, b := range r.businesses {
		if b.Name == name {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memBusinessRepo) List(offset, limit int, status, search string) ([]*model.Business, int, error) {
	all, _ := r.ListAll()
	return all, len(all), nil
}

func (r *memBusinessRepo) ListByStatus(status string) ([]*model.Business, error) {
	out := []*model.Business{}
	for _, b := range r.sorted() {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBusinessRepo) ListByIDs(ids []int) ([]*model.Business, error) {
	out := []*model.Business{}
	for _, id := range ids {
		if b, ok := r.businesses[id]; ok {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memBusinessRepo) ListAll() ([]*model.Business, error) {
	return r.sorted(), nil
}

func (r *memBusinessRepo) sorted() []*model.Business {
	ids := []int{}
	for id := range r.businesses {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []*model.Business{}
	for _, id := range ids {
		copied := *r.businesses[id]
		out = append(out, &copied)
	}
	return out
}

func (r *memBusinessRepo) Update(b *model.Business) error {
	if _, ok := r.businesses[b.ID]; !ok {
		return apperrors.NewNotFound("business", b.ID)
	}
	copied := *b
	r.businesses[b.ID] = &copied
	return nil
}

func (r *memBusinessRepo) UpdateStatus(id int, status string) error {
	b, ok := r.businesses[id]
	if !ok {
		return apperrors.NewNotFound("business", id)
	}
	b.Status = status
	return nil
}

func (r *memBusinessRepo) UpdateWebsite(id int, website string) error {
	b, ok := r.businesses[id]
	if !ok {
		return apperrors.NewNotFound("business", id)
	}
	b.Website = website
	return nil
}

func (r *memBusinessRepo) Delete(id int) error {
	if _, ok := r.businesses[id]; !ok {
		return apperrors.NewNotFound("business", id)
	}
	delete(r.businesses, id)
	return nil
}

func (r *memBusinessRepo) CountByStatus() (map[string]int, error) {
	counts := map[string]int{}
	for _, b := range r.businesses {
		counts[b.Status]++
	}
	return counts, nil
}

type memContactRepo struct {
	contacts []*model.Contact
	nextID   int
}

func newMemContactRepo(contacts ...*model.Contact) *memContactRepo {
	repo := &memContactRepo{nextID: 1}
	for _, c := range contacts {
		copied := *c
		if copied.ID == 0 {
			copied.ID = repo.nextID
		}
		repo.contacts = append(repo.contacts, &copied)
		if copied.ID >= repo.nextID {
			repo.nextID = copied.ID + 1
		}
	}
	return repo
}

func (r *memContactRepo) Create(c *model.Contact) error {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	copied := *c
	r.contacts = append(r.contacts, &copied)
	return nil
}

func (r *memContactRepo) Exists(businessID int, contactType, value string) (bool, error) {
	for _, c := range r.contacts {
		if c.BusinessID == businessID && c.Type == contactType && c.Value == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *memContactRepo) FindByBusinessAndType(businessID int, contactType string) (*model.Contact, error) {
	for _, c := range r.contacts {
		if c.BusinessID == businessID && c.Type == contactType {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memContactRepo) ListByBusiness(businessID int) ([]*model.Contact, error) {
	out := []*model.Contact{}
	for _, c := range r.contacts {
		if c.BusinessID == businessID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memContactRepo) Delete(businessID, contactID int) error {
	for i, c := range r.contacts {
		if c.ID == contactID && c.BusinessID == businessID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("contact", contactID)
}

type memCampaignRepo struct {
	campaigns map[int]*model.Campaign
	nextID    int
}

func newMemCampaignRepo(campaigns ...*model.Campaign) *memCampaignRepo {
	repo := &memCampaignRepo{campaigns: map[int]*model.Campaign{}, nextID: 1}
	for _, c := range campaigns {
		copied := *c
		if copied.ID == 0 {
			copied.ID = repo.nextID
		}
		repo.campaigns[copied.ID] = &copied
		if copied.ID >= repo.nextID {
			repo.nextID = copied.ID + 1
		}
	}
	return repo
}

func (r *memCampaignRepo) Create(c *model.Campaign) error {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *memCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, apperrors.NewNotFound("campaign", id)
	}
	copied := *c
	return &copied, nil
}

func (r *memCampaignRepo) GetByName(name string) (*model.Campaign, error) {
	for _, c := range r.campaigns {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memCampaignRepo) List(offset, limit int, status string) ([]*model.Campaign, int, error) {
	out := []*model.Campaign{}
	for _, c := range r.campaigns {
		if status == "" || c.Status == status {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (r *memCampaignRepo) ListCreatedSince(since time.Time) ([]*model.Campaign, error) {
	out := []*model.Campaign{}
	for _, c := range r.campaigns {
		if !c.CreatedAt.Before(since) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memCampaignRepo) Update(c *model.Campaign) error {
	if _, ok := r.campaigns[c.ID]; !ok {
		return apperrors.NewNotFound("campaign", c.ID)
	}
	copied := *c
	r.campaigns[c.ID] = &copied
	return nil
}

func (r *memCampaignRepo) UpdateStatus(id int, status string) error {
	c, ok := r.campaigns[id]
	if !ok {
		return apperrors.NewNotFound("campaign", id)
	}
	c.Status = status
	return nil
}

func (r *memCampaignRepo) Delete(id int) error {
	if _, ok := r.campaigns[id]; !ok {
		return apperrors.NewNotFound("campaign", id)
	}
	delete(r.campaigns, id)
	return nil
}

type memMessageRepo struct {
	messages []*model.Message
	nextID   int
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{nextID: 1}
}

func (r *memMessageRepo) Create(m *model.Message) error {
	m.ID = r.nextID
	r.nextID++
	if m.Status == "" {
		m.Status = model.MessageStatusPending
	}
	copied := *m
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *memMessageRepo) Exists(campaignID, businessID, contactID int, platform string) (bool, error) {
	for _, m := range r.messages {
		if m.CampaignID == campaignID && m.BusinessID == businessID && m.ContactID == contactID && m.Platform == platform {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMessageRepo) MarkSent(id int, sentAt time.Time) error {
	m := r.byID(id)
	if m == nil {
		return apperrors.NewNotFound("message", id)
	}
	m.Status = model.MessageStatusSent
	m.SentAt = &sentAt
	return nil
}

func (r *memMessageRepo) MarkFailed(id int) error {
	m := r.byID(id)
	if m == nil {
		return apperrors.NewNotFound("message", id)
	}
	m.Status = model.MessageStatusFailed
	return nil
}

func (r *memMessageRepo) byID(id int) *model.Message {
	for _, m := range r.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *memMessageRepo) ListByCampaign(campaignID int) ([]*model.Message, error) {
	out := []*model.Message{}
	for _, m := range r.messages {
		if m.CampaignID == campaignID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memMessageRepo) StatsByCampaign(campaignID int) (map[string]int, error) {
	stats := map[string]int{
		"total":                     0,
		model.MessageStatusPending: 0,
		model.MessageStatusSent:    0,
		model.MessageStatusFailed:  0,
		model.MessageStatusOpened:  0,
		model.MessageStatusReplied: 0,
	}
	for _, m := range r.messages {
		if m.CampaignID == campaignID {
			stats[m.Status]++
			stats["total"]++
		}
	}
	return stats, nil
}

// fakeSender records sends and fails for addresses listed in failFor.
type fakeSender struct {
	sent    []string
	failFor map[string]bool
}

func (s *fakeSender) Send(to, subject, body string) error {
	if s.failFor[to] {
		return fmt.Errorf("smtp: connection refused for %s", to)
	}
	s.sent = append(s.sent, to)
	return nil
}

var (
	_ repository.BusinessRepositoryInterface = (*memBusinessRepo)(nil)
	_ repository.ContactRepositoryInterface  = (*memContactRepo)(nil)
	_ repository.CampaignRepositoryInterface = (*memCampaignRepo)(nil)
	_ repository.MessageRepositoryInterface  = (*memMessageRepo)(nil)
)

package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/openoutreach/outreach-backend/internal/config"
	"github.com/openoutreach/outreach-backend/internal/db"
	"github.com/openoutreach/outreach-backend/internal/model"
	"github.com/openoutreach/outreach-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	businessRepo := &repository.BusinessRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}

	businesses := []*model.Business{
		{Name: "Acme Coffee Roasters", Website: "https://acmecoffee.example.com", Email: "hello@acmecoffee.example.com", PhoneNumber: "555-010-2030", Address: "12 Bean St, Portland"},
		{Name: "Harbor Yoga Studio", Website: "https://harboryoga.example.com", Address: "4 Pier Ave, Seattle"},
		{Name: "Maple & Main Bakery", Email: "orders@maplemain.example.com", PhoneNumber: "555-444-7890", Address: "77 Main St, Burlington"},
	}

	for _, b := range businesses {
		if err := businessRepo.Create(b); err != nil {
			log.Printf("seed business %q: %v", b.Name, err)
			continue
		}
		if b.Email != "" {
			seedContact(contactRepo, b.ID, model.ContactTypeEmail, b.Email)
		}
		if b.PhoneNumber != "" {
			seedContact(contactRepo, b.ID, model.ContactTypePhone, b.PhoneNumber)
		}
		log.Printf("seeded business %q (id=%d)", b.Name, b.ID)
	}

	campaign := &model.Campaign{
		Name:            "Spring Outreach",
		MessageTemplate: "Hi {business_name}, we loved {website} and would like to partner with you. Reach us any time!",
	}
	if err := campaignRepo.Create(campaign); err != nil {
		log.Printf("seed campaign: %v", err)
	} else {
		log.Printf("seeded campaign %q (id=%d)", campaign.Name, campaign.ID)
	}
}

func seedContact(repo *repository.ContactRepository, businessID int, contactType, value string) {
	contact := &model.Contact{
		BusinessID: businessID,
		Type:       contactType,
		Value:      value,
		Source:     model.ContactSourceCSV,
		IsPrimary:  true,
	}
	if err := repo.Create(contact); err != nil {
		log.Printf("seed contact %s for business %d: %v", contactType, businessID, err)
	}
}

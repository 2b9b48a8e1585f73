package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/adapters/database"
	"github.com/medzoshop/medzo-backend/internal/adapters/search"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/typesense"
	"github.com/medzoshop/medzo-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		if err := tsClient.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(tsClient)
	}

	pharmacyRepo := database.NewPharmacyAdapter(pgClient)
	listingRepo := database.NewListingAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				order_items,
				orders,
				reviews,
				listings,
				pharmacies
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed Pharmacies (central Delhi)
	pharmacies := []entities.Pharmacy{
		{
			ID:   uuid.New().String(),
			Name: "Apollo Pharmacy Connaught Place",
			Address: entities.Address{
				Street: "N-2 Connaught Place", City: "New Delhi", State: "Delhi", ZipCode: "110001", Country: "India",
			},
			Location:     &entities.Location{Latitude: 28.6315, Longitude: 77.2167},
			PhoneNumber:  "+91-11-4100-2200",
			Verification: entities.VerificationStatusVerified,
			Rating:       4.4,
			ReviewCount:  212,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:   uuid.New().String(),
			Name: "Guardian Pharmacy Janpath",
			Address: entities.Address{
				Street: "24 Janpath Lane", City: "New Delhi", State: "Delhi", ZipCode: "110001", Country: "India",
			},
			Location:     &entities.Location{Latitude: 28.6243, Longitude: 77.2189},
			PhoneNumber:  "+91-11-2332-7788",
			Verification: entities.VerificationStatusVerified,
			Rating:       4.1,
			ReviewCount:  98,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:   uuid.New().String(),
			Name: "Wellness Forever Karol Bagh",
			Address: entities.Address{
				Street: "12 Ajmal Khan Road", City: "New Delhi", State: "Delhi", ZipCode: "110005", Country: "India",
			},
			Location:     &entities.Location{Latitude: 28.6519, Longitude: 77.1907},
			PhoneNumber:  "+91-11-2875-4410",
			Verification: entities.VerificationStatusPendingReview,
			Rating:       3.9,
			ReviewCount:  41,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:   uuid.New().String(),
			Name: "MedPlus Lajpat Nagar",
			Address: entities.Address{
				Street: "G-7 Central Market", City: "New Delhi", State: "Delhi", ZipCode: "110024", Country: "India",
			},
			Location:     &entities.Location{Latitude: 28.5677, Longitude: 77.2433},
			PhoneNumber:  "+91-11-2984-1156",
			Verification: entities.VerificationStatusVerified,
			Rating:       4.6,
			ReviewCount:  305,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for _, p := range pharmacies {
		if err := pharmacyRepo.Create(ctx, &p); err != nil {
			log.Printf("Failed to create pharmacy %s: %v", p.Name, err)
		}
	}

	// 2. Seed Listings (per-pharmacy prices deliberately differ so ranking
	// and prescription matching have something to chew on)
	type stockLine struct {
		name     string
		brand    string
		category string
		price    float64
		quantity int
	}

	catalog := map[int][]stockLine{
		0: {
			{"Crocin Advance 500mg", "GSK", "Analgesic", 30.0, 120},
			{"Azithral 500", "Alembic", "Antibiotic", 89.5, 40},
			{"Cetrizine 10mg", "Cipla", "Antihistamine", 18.0, 8},
			{"Pantocid 40", "Sun Pharma", "Antacid", 142.0, 60},
		},
		1: {
			{"Crocin Advance 500mg", "GSK", "Analgesic", 28.0, 75},
			{"Azithral 500", "Alembic", "Antibiotic", 92.0, 5},
			{"Dolo 650", "Micro Labs", "Analgesic", 31.5, 200},
		},
		2: {
			{"Crocin Advance 500mg", "GSK", "Analgesic", 25.0, 10},
			{"Cetrizine 10mg", "Cipla", "Antihistamine", 16.5, 150},
			{"Dolo 650", "Micro Labs", "Analgesic", 29.0, 90},
		},
		3: {
			{"Azithral 500", "Alembic", "Antibiotic", 85.0, 25},
			{"Pantocid 40", "Sun Pharma", "Antacid", 138.0, 45},
			{"Dolo 650", "Micro Labs", "Analgesic", 30.0, 0},
		},
	}

	for idx, lines := range catalog {
		for _, line := range lines {
			listing := &entities.Listing{
				ID:           uuid.New().String(),
				PharmacyID:   pharmacies[idx].ID,
				MedicineName: line.name,
				Brand:        line.brand,
				Category:     line.category,
				UnitPrice:    line.price,
				Quantity:     line.quantity,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := listingRepo.Create(ctx, listing); err != nil {
				log.Printf("Failed to create listing %s at %s: %v", line.name, pharmacies[idx].Name, err)
				continue
			}
			if searchRepo != nil {
				if err := searchRepo.Index(ctx, listing); err != nil {
					log.Printf("Failed to index listing %s: %v", line.name, err)
				}
			}
		}
	}

	log.Printf("Seeded %d pharmacies with listings", len(pharmacies))
}

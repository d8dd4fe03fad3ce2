package main

import (
	"fmt"
	"log"

	"alocubano-tickets/internal/config"
	"alocubano-tickets/internal/database"
	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := repositories.NewTicketTypeRepository(db.DB)

	ticketTypes := []*models.TicketType{
		{
			Name:       "Full Festival Pass",
			PriceCents: 12500,
			EventID:    1,
			EventName:  "A Lo Cubano Boulder Fest 2026",
			EventDate:  "2026-05-15",
			EventTime:  "18:00",
		},
		{
			Name:       "Friday Pass",
			PriceCents: 6000,
			EventID:    1,
			EventName:  "A Lo Cubano Boulder Fest 2026",
			EventDate:  "2026-05-15",
			EventTime:  "18:00",
		},
		{
			Name:       "Saturday Pass",
			PriceCents: 7500,
			EventID:    1,
			EventName:  "A Lo Cubano Boulder Fest 2026",
			EventDate:  "2026-05-16",
			EventTime:  "10:00",
		},
		{
			Name:       "Sunday Pass",
			PriceCents: 6000,
			EventID:    1,
			EventName:  "A Lo Cubano Boulder Fest 2026",
			EventDate:  "2026-05-17",
			EventTime:  "10:00",
		},
		{
			Name:       "Workshop Bundle",
			PriceCents: 9000,
			EventID:    1,
			EventName:  "A Lo Cubano Boulder Fest 2026",
			EventDate:  "2026-05-16",
			EventTime:  "09:00",
		},
	}

	for _, tt := range ticketTypes {
		created, err := repo.Create(tt)
		if err != nil {
			log.Fatalf("Failed to create ticket type %q: %v", tt.Name, err)
		}
		fmt.Printf("Created ticket type %d: %s ($%.2f)\n", created.ID, created.Name, float64(created.PriceCents)/100)
	}

	fmt.Println("Seeding complete.")
}

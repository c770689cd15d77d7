// Command seed loads venue reference data. Venues are read-only for the
// service itself, so this is the only writer of the venues table.
package main

import (
	"context"
	"flag"
	"log"

	"nightout/internal/config"
	"nightout/internal/models"
	"nightout/internal/storage"
)

func main() {
	city := flag.String("city", "athens-ga", "city to seed venues for")
	flag.Parse()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	venues, ok := venuesByCity[*city]
	if !ok {
		log.Fatalf("No seed data for city %q", *city)
	}

	venueRepo := storage.NewGormVenueRepository(db)
	ctx := context.Background()
	for i := range venues {
		if err := venueRepo.Upsert(ctx, &venues[i]); err != nil {
			log.Fatalf("Failed to seed venue %q: %v", venues[i].Name, err)
		}
		log.Printf("seeded venue: id=%d name=%s city=%s", venues[i].ID, venues[i].Name, venues[i].City)
	}
	log.Printf("Seeded %d venues for %s.", len(venues), *city)
}

var venuesByCity = map[string][]models.Venue{
	"athens-ga": {
		{BaseModel: models.BaseModel{ID: 1}, Name: "40 Watt Club", City: "athens-ga", Lat: 33.9580, Lng: -83.3817},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Georgia Theatre", City: "athens-ga", Lat: 33.9577, Lng: -83.3768},
		{BaseModel: models.BaseModel{ID: 3}, Name: "The Globe", City: "athens-ga", Lat: 33.9573, Lng: -83.3764},
		{BaseModel: models.BaseModel{ID: 4}, Name: "Creature Comforts Brewing", City: "athens-ga", Lat: 33.9585, Lng: -83.3797},
		{BaseModel: models.BaseModel{ID: 5}, Name: "Flicker Theatre & Bar", City: "athens-ga", Lat: 33.9581, Lng: -83.3778},
	},
}

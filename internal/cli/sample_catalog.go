package cli

import "spearid-quiz-service/internal/domain"

// sampleCatalog backs the service when no Postgres URL is configured.
func sampleCatalog() domain.Catalog {
	species := []domain.Species{
		{ID: "red-morwong", Name: "Red Morwong", ScientificName: "Cheilodactylus fuscus", Region: "NSW"},
		{ID: "goatfish", Name: "Goatfish", ScientificName: "Parupeneus spilurus", Region: "NSW"},
		{ID: "kingfish", Name: "Kingfish", ScientificName: "Seriola lalandi", Region: "NSW"},
		{ID: "leatherjacket", Name: "Leatherjacket", ScientificName: "Meuschenia freycineti", Region: "NSW"},
		{ID: "ludrick", Name: "Ludrick", ScientificName: "Girella tricuspidata", Region: "NSW"},
		{ID: "snapper", Name: "Snapper", ScientificName: "Chrysophrys auratus", Region: "NSW"},
		{ID: "flathead", Name: "Flathead", ScientificName: "Platycephalus fuscus", Region: "NSW"},
		{ID: "barramundi", Name: "Barramundi", ScientificName: "Lates calcarifer", Region: "QLD"},
		{ID: "spanish-mackerel", Name: "Spanish Mackerel", ScientificName: "Scomberomorus commerson", Region: "QLD"},
		{ID: "john-dory", Name: "John Dory", ScientificName: "Zeus faber", Region: "NSW"},
		{ID: "cobia", Name: "Cobia", ScientificName: "Rachycentron canadum", Region: "QLD"},
		{ID: "red-rock-cod", Name: "Red Rock Cod", ScientificName: "Scorpaena cardinalis", Region: "NSW"},
		{ID: "bream", Name: "Bream", ScientificName: "Acanthopagrus australis", Region: "NSW"},
		{ID: "blue-morwong", Name: "Blue Morwong", ScientificName: "Nemadactylus douglasii", Region: "NSW"},
		{ID: "silver-trevally", Name: "Silver Trevally", ScientificName: "Pseudocaranx georgianus", Region: "NSW"},
	}
	videos := make([]domain.VideoAsset, 0, len(species))
	for _, s := range species {
		if !hasSampleVideo(s.ID) {
			continue
		}
		videos = append(videos, domain.VideoAsset{
			ID:        s.ID + "-1",
			SpeciesID: s.ID,
			FilePath:  s.ID + "/clip-1.mp4",
		})
	}
	return domain.Catalog{Species: species, Videos: videos}
}

// Species without footage still serve as distractors.
func hasSampleVideo(id string) bool {
	switch id {
	case "blue-morwong", "bream", "red-rock-cod", "silver-trevally":
		return false
	}
	return true
}

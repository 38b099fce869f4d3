package plants

import (
	"context"

	"github.com/sirupsen/logrus"

	"bloompal-backend/internal/model"
)

type demoPlant struct {
	name, species string
	plantType     model.PlantType
	location      model.PlantLocation
	toxic, bloom  bool
	interval      int
	description   string
}

var demoPlants = []demoPlant{
	{"Snake Plant", "Sansevieria trifasciata", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 14, "Hardy, drought-tolerant plant. Thrives on neglect!"},
	{"Monstera", "Monstera deliciosa", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 7, "Iconic split leaves. Loves bright indirect light."},
	{"Peace Lily", "Spathiphyllum", model.PlantTypeFlowering, model.PlantLocationIndoor, true, true, 5, "Air purifying plant with elegant white blooms."},
	{"ZZ Plant", "Zamioculcas zamiifolia", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 14, "Nearly indestructible. Perfect for beginners!"},
	{"Chinese Money Plant", "Pilea peperomioides", model.PlantTypeFoliage, model.PlantLocationIndoor, false, false, 7, "Cute coin-shaped leaves. Easy to propagate!"},
	{"Orchid", "Phalaenopsis", model.PlantTypeFlowering, model.PlantLocationIndoor, false, true, 7, "Elegant flowering plant. Needs humidity and indirect light."},
	{"String of Pearls", "Senecio rowleyanus", model.PlantTypeSucculent, model.PlantLocationIndoor, true, false, 10, "Unique trailing succulent with bead-like leaves."},
	{"Aglaonema", "Aglaonema", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 7, "Colorful foliage plant. Great for low light areas."},
	{"Caladium", "Caladium bicolor", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 3, "Stunning heart-shaped leaves with vibrant patterns."},
	{"Croton", "Codiaeum variegatum", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 5, "Bold, colorful leaves. Needs bright light to maintain colors."},
	{"Syngonium", "Syngonium podophyllum", model.PlantTypeFoliage, model.PlantLocationIndoor, true, false, 5, "Arrow-shaped leaves. Fast growing and easy to care for."},
	{"Tradescantia", "Tradescantia zebrina", model.PlantTypeFoliage, model.PlantLocationIndoor, false, false, 5, "Beautiful striped purple leaves. Great for hanging baskets."},
	{"Yucca", "Yucca elephantipes", model.PlantTypeFoliage, model.PlantLocationOutdoor, true, false, 14, "Architectural plant with sword-like leaves. Very drought tolerant."},
}

// SeedDemo adds the demo collection to the owner's plants. Demo plants start
// freshly watered and without history.
func (s *Service) SeedDemo(ctx context.Context, ownerID string) ([]PlantView, error) {
	now := s.clock.Now().UTC()
	views := make([]PlantView, 0, len(demoPlants))

	for _, d := range demoPlants {
		profile, err := s.engine.NewProfile("", d.interval, now)
		if err != nil {
			return nil, err
		}
		profile, _, err = s.engine.RecordWatering(profile, now, "")
		if err != nil {
			return nil, err
		}

		plant := model.Plant{
			OwnerID:     ownerID,
			Name:        d.name,
			Species:     d.species,
			Type:        d.plantType,
			Category:    model.PlantCategoryCommon,
			Location:    d.location,
			IsToxic:     d.toxic,
			InBloom:     d.bloom,
			Description: d.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		plant.ApplyCareProfile(profile)

		if err := s.store.CreatePlant(ctx, &plant); err != nil {
			return nil, err
		}
		views = append(views, s.view(plant, now))
	}

	s.log.WithFields(logrus.Fields{"owner_id": ownerID, "count": len(views)}).Info("Demo plants imported")
	return views, nil
}

package plants

import "context"

type milestone struct {
	key, title, description string
	unlocked                func(plants, waterings, inBloom int) bool
}

var milestones = []milestone{
	{"first_plant", "First Plant", "Add your first plant", func(p, _, _ int) bool { return p >= 1 }},
	{"green_thumb", "Green Thumb", "Add 5 plants", func(p, _, _ int) bool { return p >= 5 }},
	{"plant_parent", "Plant Parent", "Add 10 plants", func(p, _, _ int) bool { return p >= 10 }},
	{"plant_expert", "Plant Expert", "Add 25 plants", func(p, _, _ int) bool { return p >= 25 }},
	{"forest_keeper", "Forest Keeper", "Add 50 plants", func(p, _, _ int) bool { return p >= 50 }},
	{"hydration_hero", "Hydration Hero", "Water plants 10 times", func(_, w, _ int) bool { return w >= 10 }},
	{"bloom_master", "Bloom Master", "3 plants blooming", func(_, _, b int) bool { return b >= 3 }},
}

// Achievements evaluates the owner's milestones.
func (s *Service) Achievements(ctx context.Context, ownerID string) ([]Achievement, error) {
	plants, err := s.store.ListPlants(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	waterings, err := s.store.CountOwnerWaterings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	inBloom := 0
	for _, p := range plants {
		if p.InBloom {
			inBloom++
		}
	}

	out := make([]Achievement, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, Achievement{
			Key:         m.key,
			Title:       m.title,
			Description: m.description,
			Unlocked:    m.unlocked(len(plants), int(waterings), inBloom),
		})
	}
	return out, nil
}

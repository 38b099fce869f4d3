package model

// PlantType is the botanical kind of a plant.
type PlantType string

const (
	PlantTypeFoliage   PlantType = "foliage"
	PlantTypeFlowering PlantType = "flowering"
	PlantTypeHerb      PlantType = "herb"
	PlantTypeSucculent PlantType = "succulent"
)

// PlantTypes lists every plant type in display order.
var PlantTypes = []PlantType{PlantTypeFoliage, PlantTypeFlowering, PlantTypeHerb, PlantTypeSucculent}

// DisplayName returns the label shown to users.
func (t PlantType) DisplayName() string {
	switch t {
	case PlantTypeFoliage:
		return "Foliage Plant"
	case PlantTypeFlowering:
		return "Flowering Plant"
	case PlantTypeHerb:
		return "Herb"
	case PlantTypeSucculent:
		return "Succulent"
	}
	return string(t)
}

// PlantCategory separates exotic plants from common ones.
type PlantCategory string

const (
	PlantCategoryExotic PlantCategory = "exotic"
	PlantCategoryCommon PlantCategory = "common"
)

// PlantCategories lists every category in display order.
var PlantCategories = []PlantCategory{PlantCategoryExotic, PlantCategoryCommon}

// DisplayName returns the label shown to users.
func (c PlantCategory) DisplayName() string {
	switch c {
	case PlantCategoryExotic:
		return "Exotic"
	case PlantCategoryCommon:
		return "Common"
	}
	return string(c)
}

// PlantLocation is where the plant lives.
type PlantLocation string

const (
	PlantLocationIndoor  PlantLocation = "indoor"
	PlantLocationOutdoor PlantLocation = "outdoor"
)

// PlantLocations lists every location in display order.
var PlantLocations = []PlantLocation{PlantLocationIndoor, PlantLocationOutdoor}

// DisplayName returns the label shown to users.
func (l PlantLocation) DisplayName() string {
	switch l {
	case PlantLocationIndoor:
		return "Indoor"
	case PlantLocationOutdoor:
		return "Outdoor"
	}
	return string(l)
}

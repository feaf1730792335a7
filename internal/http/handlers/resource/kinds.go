package resource

import (
	"github.com/aanand-mishra/zoo-api/internal/types"
	"github.com/aanand-mishra/zoo-api/internal/validation"
)

var (
	Users = Kind[types.User]{
		Name:   "User",
		Plural: "users",
		Schema: validation.UserSchema,
		Build:  validation.UserFromPayload,
	}

	Zookeepers = Kind[types.Zookeeper]{
		Name:   "Zookeeper",
		Plural: "zookeepers",
		Schema: validation.ZookeeperSchema,
		Build:  validation.ZookeeperFromPayload,
	}

	Habitats = Kind[types.Habitat]{
		Name:   "Habitat",
		Plural: "habitats",
		Schema: validation.HabitatSchema,
		Build:  validation.HabitatFromPayload,
	}

	Animals = Kind[types.Animal]{
		Name:   "Animal",
		Plural: "animals",
		Schema: validation.AnimalSchema,
		Build:  validation.AnimalFromPayload,
	}
)

package validation

import "github.com/aanand-mishra/zoo-api/internal/types"

// Accepted animal genders.
const (
	GenderMale   = "Macho"
	GenderFemale = "Hembra"
)

var (
	UserSchema = &Schema{
		Name: "User",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text},
			{Key: "email", Label: "Email", Kind: Email},
		},
	}

	ZookeeperSchema = &Schema{
		Name: "Zookeeper",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text},
			{Key: "email", Label: "Email", Kind: Email},
			{Key: "specialization", Label: "Specialization", Kind: Text},
			{Key: "yearsOfExperience", Label: "Years of experience", Kind: Integer, Min: 0},
		},
	}

	HabitatSchema = &Schema{
		Name: "Habitat",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text},
			{Key: "type", Label: "Type", Kind: Text},
			{Key: "capacity", Label: "Capacity", Kind: Integer, Min: 1},
			{Key: "location", Label: "Location", Kind: Text},
		},
	}

	AnimalSchema = &Schema{
		Name: "Animal",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text},
			{Key: "species", Label: "Species", Kind: Text},
			{Key: "age", Label: "Age", Kind: Integer, Min: 1},
			{Key: "gender", Label: "Gender", Kind: Enum, Values: []string{GenderMale, GenderFemale}},
		},
	}
)

// User validates a user payload.
func User(p Payload) Result { return UserSchema.Validate(p) }

// Zookeeper validates a zookeeper payload.
func Zookeeper(p Payload) Result { return ZookeeperSchema.Validate(p) }

// Habitat validates a habitat payload.
func Habitat(p Payload) Result { return HabitatSchema.Validate(p) }

// Animal validates an animal payload.
func Animal(p Payload) Result { return AnimalSchema.Validate(p) }

// UserFromPayload builds a User from a payload that passed User.
func UserFromPayload(p Payload) types.User {
	return types.User{
		Name:  p.Text("name"),
		Email: p.Text("email"),
	}
}

// ZookeeperFromPayload builds a Zookeeper from a payload that passed Zookeeper.
func ZookeeperFromPayload(p Payload) types.Zookeeper {
	return types.Zookeeper{
		Name:              p.Text("name"),
		Email:             p.Text("email"),
		Specialization:    p.Text("specialization"),
		YearsOfExperience: p.Int("yearsOfExperience"),
	}
}

// HabitatFromPayload builds a Habitat from a payload that passed Habitat.
func HabitatFromPayload(p Payload) types.Habitat {
	return types.Habitat{
		Name:     p.Text("name"),
		Type:     p.Text("type"),
		Capacity: p.Int("capacity"),
		Location: p.Text("location"),
	}
}

// AnimalFromPayload builds an Animal from a payload that passed Animal.
func AnimalFromPayload(p Payload) types.Animal {
	return types.Animal{
		Name:    p.Text("name"),
		Species: p.Text("species"),
		Age:     p.Int("age"),
		Gender:  p.Text("gender"),
	}
}

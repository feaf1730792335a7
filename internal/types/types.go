// Package types holds the zoo entities shared across the application.
// Validation, storage backends and handlers all import types without
// depending on each other.
//
// Struct tags:
//
//  1. json:"...": the wire shape of every resource.
//  2. bson:"...": the MongoDB document shape; the identifier is the
//     document _id so uniqueness is enforced by the collection itself.
//  3. dynamodbav:"...": the DynamoDB item shape; "id" is the hash key.
package types

// Entity is implemented by every stored resource. Identity is assigned once
// at creation and carried unchanged through every update.
type Entity[T any] interface {
	// GetID returns the record's opaque identifier.
	GetID() string

	// WithID returns a copy of the record carrying the given identifier.
	WithID(id string) T
}

// User is a registered user of the zoo system.
type User struct {
	ID    string `json:"id"    bson:"_id"   dynamodbav:"id"`
	Name  string `json:"name"  bson:"name"  dynamodbav:"name"`
	Email string `json:"email" bson:"email" dynamodbav:"email"`
}

func (u User) GetID() string { return u.ID }

func (u User) WithID(id string) User {
	u.ID = id
	return u
}

// Zookeeper is a member of staff caring for the animals.
type Zookeeper struct {
	ID                string `json:"id"                bson:"_id"               dynamodbav:"id"`
	Name              string `json:"name"              bson:"name"              dynamodbav:"name"`
	Email             string `json:"email"             bson:"email"             dynamodbav:"email"`
	Specialization    string `json:"specialization"    bson:"specialization"    dynamodbav:"specialization"`
	YearsOfExperience int    `json:"yearsOfExperience" bson:"yearsOfExperience" dynamodbav:"yearsOfExperience"`
}

func (z Zookeeper) GetID() string { return z.ID }

func (z Zookeeper) WithID(id string) Zookeeper {
	z.ID = id
	return z
}

// Habitat is an enclosure animals can live in.
type Habitat struct {
	ID       string `json:"id"       bson:"_id"      dynamodbav:"id"`
	Name     string `json:"name"     bson:"name"     dynamodbav:"name"`
	Type     string `json:"type"     bson:"type"     dynamodbav:"type"`
	Capacity int    `json:"capacity" bson:"capacity" dynamodbav:"capacity"`
	Location string `json:"location" bson:"location" dynamodbav:"location"`
}

func (h Habitat) GetID() string { return h.ID }

func (h Habitat) WithID(id string) Habitat {
	h.ID = id
	return h
}

// Animal is a single animal living in the zoo.
type Animal struct {
	ID      string `json:"id"      bson:"_id"     dynamodbav:"id"`
	Name    string `json:"name"    bson:"name"    dynamodbav:"name"`
	Species string `json:"species" bson:"species" dynamodbav:"species"`
	Age     int    `json:"age"     bson:"age"     dynamodbav:"age"`
	Gender  string `json:"gender"  bson:"gender"  dynamodbav:"gender"`
}

func (a Animal) GetID() string { return a.ID }

func (a Animal) WithID(id string) Animal {
	a.ID = id
	return a
}

package validation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/zoo-api/internal/types"
)

// payload decodes JSON the same way the router does.
func payload(t *testing.T, raw string) Payload {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(raw))
	dec.UseNumber()
	var p Payload
	require.NoError(t, dec.Decode(&p))
	return p
}

type validationCase struct {
	name    string
	body    string
	wantMsg string // empty means valid
}

func runCases(t *testing.T, fn func(Payload) Result, cases []validationCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := fn(payload(t, tc.body))
			if tc.wantMsg == "" {
				assert.True(t, res.Valid, "unexpected message %q", res.Message)
				assert.Empty(t, res.Message)
				return
			}
			assert.False(t, res.Valid)
			assert.Equal(t, tc.wantMsg, res.Message)
		})
	}
}

func TestUser(t *testing.T) {
	runCases(t, User, []validationCase{
		{"valid", `{"name":"Frederick","email":"fredo@gmail.com"}`, ""},
		{"missing email", `{"name":"Frederick"}`, "Name and email are required"},
		{"null name", `{"name":null,"email":"a@b.co"}`, "Name and email are required"},
		{"blank name", `{"name":"   ","email":"test@example.com"}`, "Name cannot be empty"},
		{"invalid email", `{"name":"John","email":"invalid-email"}`, "Email must be a valid email address"},
		{"missing domain", `{"name":"John","email":"test@"}`, "Email must be a valid email address"},
		{"missing at", `{"name":"John","email":"testexample.com"}`, "Email must be a valid email address"},
		{"whitespace in email", `{"name":"John","email":"jo hn@example.com"}`, "Email must be a valid email address"},
		{"email trimmed before matching", `{"name":"John","email":"  john@example.com  "}`, ""},
		{"empty email", `{"name":"John","email":""}`, "Email must be a valid email address"},
		{"numeric name is coerced", `{"name":42,"email":"a@b.co"}`, ""},
	})
}

func TestUser_PresenceBeforeFormat(t *testing.T) {
	res := User(payload(t, `{"email":"not-an-email"}`))
	assert.False(t, res.Valid)
	assert.Equal(t, "Name and email are required", res.Message)
}

func TestZookeeper(t *testing.T) {
	runCases(t, Zookeeper, []validationCase{
		{"valid", `{"name":"Ana","email":"ana@zoo.org","specialization":"Reptiles","yearsOfExperience":0}`, ""},
		{"missing", `{"name":"Ana"}`, "Name, email, specialization and yearsOfExperience are required"},
		{"blank name", `{"name":" ","email":"ana@zoo.org","specialization":"Reptiles","yearsOfExperience":1}`, "Name cannot be empty"},
		{"blank specialization before bad email", `{"name":"Ana","email":"bad","specialization":"  ","yearsOfExperience":1}`, "Specialization cannot be empty"},
		{"bad email", `{"name":"Ana","email":"bad","specialization":"Reptiles","yearsOfExperience":1}`, "Email must be a valid email address"},
		{"negative years", `{"name":"Ana","email":"ana@zoo.org","specialization":"Reptiles","yearsOfExperience":-1}`, "Years of experience must be a non-negative number"},
		{"fractional years", `{"name":"Ana","email":"ana@zoo.org","specialization":"Reptiles","yearsOfExperience":2.5}`, "Years of experience must be a whole number"},
		{"string years", `{"name":"Ana","email":"ana@zoo.org","specialization":"Reptiles","yearsOfExperience":"3"}`, "Years of experience must be a whole number"},
	})
}

func TestHabitat(t *testing.T) {
	runCases(t, Habitat, []validationCase{
		{"valid", `{"name":"Forest","type":"Woodland","capacity":10,"location":"East Zone"}`, ""},
		{"missing", `{"name":"Forest"}`, "Name, type, capacity and location are required"},
		{"blank type", `{"name":"Forest","type":"","capacity":10,"location":"East Zone"}`, "Type cannot be empty"},
		{"blank location", `{"name":"Forest","type":"Woodland","capacity":10,"location":"\t"}`, "Location cannot be empty"},
		{"zero capacity", `{"name":"Forest","type":"Woodland","capacity":0,"location":"East Zone"}`, "Capacity must be a positive number"},
		{"fractional capacity", `{"name":"Forest","type":"Woodland","capacity":10.5,"location":"East Zone"}`, "Capacity must be a whole number"},
		{"negative fractional reports bound first", `{"name":"Forest","type":"Woodland","capacity":-0.5,"location":"East Zone"}`, "Capacity must be a positive number"},
		{"huge capacity", `{"name":"Forest","type":"Woodland","capacity":1e300,"location":"East Zone"}`, "Capacity must be a whole number"},
	})
}

func TestAnimal(t *testing.T) {
	runCases(t, Animal, []validationCase{
		{"valid", `{"name":"Maya","species":"Jirafa","age":9,"gender":"Hembra"}`, ""},
		{"missing name and gender", `{"age":3,"species":"Elefante"}`, "Name, species, age and gender are required"},
		{"blank species", `{"name":"Maya","species":" ","age":9,"gender":"Hembra"}`, "Species cannot be empty"},
		{"bad gender", `{"name":"Maya","species":"Jirafa","age":9,"gender":"Female"}`, "Gender can only be Macho or Hembra"},
		{"numeric gender", `{"name":"Maya","species":"Jirafa","age":9,"gender":1}`, "Gender can only be Macho or Hembra"},
		{"gender checked before age", `{"name":"Maya","species":"Jirafa","age":0,"gender":"x"}`, "Gender can only be Macho or Hembra"},
		{"zero age", `{"name":"Maya","species":"Jirafa","age":0,"gender":"Macho"}`, "Age must be a positive number"},
		{"fractional age", `{"name":"Maya","species":"Jirafa","age":1.5,"gender":"Macho"}`, "Age must be a whole number"},
		{"boolean age", `{"name":"Maya","species":"Jirafa","age":true,"gender":"Macho"}`, "Age must be a whole number"},
		{"integral float age", `{"name":"Maya","species":"Jirafa","age":4.0,"gender":"Macho"}`, ""},
	})
}

func TestValidate_DoesNotMutatePayload(t *testing.T) {
	p := payload(t, `{"name":"  Rex  ","species":" Perro ","age":3,"gender":"Macho"}`)
	Animal(p)
	assert.Equal(t, "  Rex  ", p["name"])
	assert.Equal(t, " Perro ", p["species"])
}

func TestFromPayload_Normalizes(t *testing.T) {
	animal := AnimalFromPayload(payload(t, `{"name":"  Rex  ","species":" Perro ","age":3,"gender":"Macho"}`))
	assert.Equal(t, types.Animal{Name: "Rex", Species: "Perro", Age: 3, Gender: "Macho"}, animal)

	user := UserFromPayload(payload(t, `{"name":" Alice ","email":" alice@example.com "}`))
	assert.Equal(t, types.User{Name: "Alice", Email: "alice@example.com"}, user)

	keeper := ZookeeperFromPayload(payload(t, `{"name":"Ana","email":"ana@zoo.org","specialization":" Aves ","yearsOfExperience":7}`))
	assert.Equal(t, types.Zookeeper{Name: "Ana", Email: "ana@zoo.org", Specialization: "Aves", YearsOfExperience: 7}, keeper)

	habitat := HabitatFromPayload(payload(t, `{"name":"Forest","type":"Woodland","capacity":10,"location":" East "}`))
	assert.Equal(t, types.Habitat{Name: "Forest", Type: "Woodland", Capacity: 10, Location: "East"}, habitat)
}

func TestPayload_CandidateID(t *testing.T) {
	assert.Equal(t, "abc", payload(t, `{"id":"abc"}`).CandidateID())
	assert.Equal(t, " spaced ", payload(t, `{"id":" spaced "}`).CandidateID())
	assert.Equal(t, "12", payload(t, `{"id":12}`).CandidateID())
	assert.Equal(t, "", payload(t, `{"id":{"x":1}}`).CandidateID())
	assert.Equal(t, "", payload(t, `{}`).CandidateID())
}

func TestSchema_RequiredMessage(t *testing.T) {
	assert.Equal(t, "Name and email are required", UserSchema.RequiredMessage())
	assert.Equal(t, "Name, type, capacity and location are required", HabitatSchema.RequiredMessage())

	single := &Schema{Name: "Tag", Fields: []Field{{Key: "label", Label: "Label", Kind: Text}}}
	assert.Equal(t, "Label are required", single.RequiredMessage())
}

func TestSchema_CustomBoundAndEnum(t *testing.T) {
	s := &Schema{
		Name: "Feeding",
		Fields: []Field{
			{Key: "portions", Label: "Portions", Kind: Integer, Min: 3},
			{Key: "slot", Label: "Slot", Kind: Enum, Values: []string{"morning", "noon", "late night"}},
		},
	}

	res := s.Validate(Payload{"portions": 2, "slot": "noon"})
	assert.Equal(t, "Portions must be at least 3", res.Message)

	res = s.Validate(Payload{"portions": 3, "slot": "evening"})
	assert.Equal(t, "Slot can only be morning, noon or late night", res.Message)

	res = s.Validate(Payload{"portions": 3, "slot": "late night"})
	assert.True(t, res.Valid)
}

// Package rules holds the immutable rule-content tables of the Colonial Weather
// ruleset: gravity modifiers, health levels, the skill catalog, hit locations,
// experience costs and the named combat constants.
//
// A Rules value is built once at process start and passed by reference; nothing
// in the engine mutates it afterwards.
package rules

// Attribute is the short key of a character attribute.
type Attribute string

const (
	Strength     Attribute = "str"
	Dexterity    Attribute = "dex"
	Stamina      Attribute = "sta"
	Charisma     Attribute = "cha"
	Social       Attribute = "soc"
	Appearance   Attribute = "app"
	Intelligence Attribute = "int"
	Education    Attribute = "edu"
	Wits         Attribute = "wit"
)

var attributeLabels = map[Attribute]string{
	Strength:     "Strength",
	Dexterity:    "Dexterity",
	Stamina:      "Stamina",
	Charisma:     "Charisma",
	Social:       "Social",
	Appearance:   "Appearance",
	Intelligence: "Intelligence",
	Education:    "Education",
	Wits:         "Wits",
}

// Attributes returns every attribute key: physical, then social, then mental.
func Attributes() []Attribute {
	return []Attribute{
		Strength, Dexterity, Stamina,
		Charisma, Social, Appearance,
		Intelligence, Education, Wits,
	}
}

// Valid reports whether a is a known attribute key.
func (a Attribute) Valid() bool {
	_, ok := attributeLabels[a]
	return ok
}

// Physical reports whether a is modified by gravity.
func (a Attribute) Physical() bool {
	return a == Strength || a == Dexterity || a == Stamina
}

// Label returns the display name of a, or the raw key when unknown.
func (a Attribute) Label() string {
	if l, ok := attributeLabels[a]; ok {
		return l
	}
	return string(a)
}

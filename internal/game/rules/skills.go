package rules

// SkillDef is one entry of the skill catalog.
type SkillDef struct {
	Key       string    `yaml:"key" json:"key"`
	Label     string    `yaml:"label" json:"label"`
	Attribute Attribute `yaml:"attribute" json:"attribute"`
}

func defaultSkills() []SkillDef {
	return []SkillDef{
		{"athletics", "Athletics", Strength},
		{"awareness", "Awareness", Wits},
		{"brawl", "Brawl", Strength},
		{"business", "Business", Social},
		{"computer", "Computer Use", Intelligence},
		{"demolitions", "Demolitions", Intelligence},
		{"disguise", "Disguise", Appearance},
		{"drive", "Drive", Dexterity},
		{"empathy", "Empathy", Charisma},
		{"engineering", "Engineering", Intelligence},
		{"etiquette", "Etiquette", Social},
		{"firearms", "Firearms", Dexterity},
		{"forgery", "Forgery", Intelligence},
		{"gambling", "Gambling", Wits},
		{"gatherInfo", "Gather Information", Charisma},
		{"heavyWeapons", "Heavy Weapons", Dexterity},
		{"intimidate", "Intimidate", Strength},
		{"leadership", "Leadership", Charisma},
		{"linguistics", "Linguistics", Education},
		{"martialArts", "Martial Arts", Dexterity},
		{"medicine", "Medicine", Education},
		{"melee", "Melee", Dexterity},
		{"navigation", "Navigation", Intelligence},
		{"perform", "Perform", Appearance},
		{"pilot", "Pilot", Dexterity},
		{"politics", "Politics", Social},
		{"repair", "Repair", Dexterity},
		{"security", "Security", Wits},
		{"stealth", "Stealth", Dexterity},
		{"streetwise", "Streetwise", Wits},
		{"subterfuge", "Subterfuge", Charisma},
		{"survival", "Survival", Stamina},
		{"technology", "Technology", Education},
	}
}

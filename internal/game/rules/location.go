package rules

import "strings"

// Location is a body region with its own hit points and armor coverage.
type Location string

const (
	Head     Location = "head"
	Chest    Location = "chest"
	Stomach  Location = "stomach"
	RightArm Location = "rArm"
	LeftArm  Location = "lArm"
	RightLeg Location = "rLeg"
	LeftLeg  Location = "lLeg"
)

var locationLabels = map[Location]string{
	Head:     "Head",
	Chest:    "Chest",
	Stomach:  "Stomach",
	RightArm: "Right Arm",
	LeftArm:  "Left Arm",
	RightLeg: "Right Leg",
	LeftLeg:  "Left Leg",
}

// Locations returns every body location, vital ones first.
func Locations() []Location {
	return []Location{Head, Chest, Stomach, RightArm, LeftArm, RightLeg, LeftLeg}
}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	_, ok := locationLabels[l]
	return ok
}

// ParseLocation resolves s against location keys and display labels,
// ignoring case and surrounding space. "Head", "rarm" and "Right Arm" all match.
func ParseLocation(s string) (Location, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Locations() {
		if strings.EqualFold(s, string(l)) || strings.EqualFold(s, locationLabels[l]) {
			return l, true
		}
	}
	return "", false
}

// Vital reports whether destroying l kills outright.
func (l Location) Vital() bool {
	return l == Head || l == Chest || l == Stomach
}

// Limb reports whether l can bleed out when destroyed.
func (l Location) Limb() bool {
	return l == RightArm || l == LeftArm || l == RightLeg || l == LeftLeg
}

// Label returns the display name of l, or the raw key when unknown.
func (l Location) Label() string {
	if s, ok := locationLabels[l]; ok {
		return s
	}
	return string(l)
}

// d10 face (index face-1) to struck location.
var hitLocationTable = [10]Location{
	Head,     // 1
	Chest,    // 2
	Stomach,  // 3
	Stomach,  // 4
	RightLeg, // 5
	LeftLeg,  // 6
	RightLeg, // 7
	LeftLeg,  // 8
	RightArm, // 9
	LeftArm,  // 10
}

// HitLocationFor maps a d10 face to the struck location.
//
// Postcondition: faces outside [1,10] are clamped into range.
func HitLocationFor(face int) Location {
	if face < 1 {
		face = 1
	}
	if face > 10 {
		face = 10
	}
	return hitLocationTable[face-1]
}

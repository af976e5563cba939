package models

// TeamID identifies one of the response teams a report can be dispatched to
type TeamID string

// Response teams
const (
	TeamPolice      TeamID = "police"
	TeamArmy        TeamID = "army"
	TeamRedCross    TeamID = "redCross"
	TeamFireBrigade TeamID = "fireBrigade"
	TeamMedical     TeamID = "medical"
	TeamRescue      TeamID = "rescue"
	TeamExcavator   TeamID = "excavator"
	TeamVolunteers  TeamID = "volunteers"
)

// Teams lists every response team in display order
var Teams = []TeamID{
	TeamPolice, TeamArmy, TeamRedCross, TeamFireBrigade,
	TeamMedical, TeamRescue, TeamExcavator, TeamVolunteers,
}

// Valid reports whether t is a known team
func (t TeamID) Valid() bool {
	for _, v := range Teams {
		if v == t {
			return true
		}
	}
	return false
}

// NeedID identifies a rehabilitation need
type NeedID string

// Rehabilitation needs
const (
	NeedTempShelter       NeedID = "temp_shelter"
	NeedFoodSupport       NeedID = "food_support"
	NeedMedicalFollowup   NeedID = "medical_followup"
	NeedPsychosocial      NeedID = "psychosocial"
	NeedHouseRepair       NeedID = "house_repair"
	NeedSchoolRestoration NeedID = "school_restoration"
	NeedRoadRepair        NeedID = "road_repair"
)

// Needs lists every rehabilitation need in display order
var Needs = []NeedID{
	NeedTempShelter, NeedFoodSupport, NeedMedicalFollowup, NeedPsychosocial,
	NeedHouseRepair, NeedSchoolRestoration, NeedRoadRepair,
}

// Valid reports whether n is a known need
func (n NeedID) Valid() bool {
	for _, v := range Needs {
		if v == n {
			return true
		}
	}
	return false
}

// ItemID identifies a kind of distributed aid
type ItemID string

// Aid items
const (
	ItemRice      ItemID = "rice"
	ItemWater     ItemID = "water"
	ItemTarpaulin ItemID = "tarpaulin"
	ItemMedicine  ItemID = "medicine"
	ItemBlankets  ItemID = "blankets"
	ItemTents     ItemID = "tents"
	ItemClothing  ItemID = "clothing"
	ItemCash      ItemID = "cash"
	ItemOther     ItemID = "other"
)

// Items lists every aid item in display order
var Items = []ItemID{
	ItemRice, ItemWater, ItemTarpaulin, ItemMedicine, ItemBlankets,
	ItemTents, ItemClothing, ItemCash, ItemOther,
}

// Valid reports whether i is a known item
func (i ItemID) Valid() bool {
	for _, v := range Items {
		if v == i {
			return true
		}
	}
	return false
}

// UnitID identifies the measurement unit of an aid delivery
type UnitID string

// Measurement units
const (
	UnitKg      UnitID = "kg"
	UnitLiters  UnitID = "liters"
	UnitPieces  UnitID = "pieces"
	UnitPackets UnitID = "packets"
	UnitRupees  UnitID = "rupees"
)

// Units lists every unit in display order
var Units = []UnitID{UnitKg, UnitLiters, UnitPieces, UnitPackets, UnitRupees}

// Valid reports whether u is a known unit
func (u UnitID) Valid() bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}

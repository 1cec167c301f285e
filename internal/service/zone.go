package service

import (
	"strings"

	"github.com/rillyayidan/SmartHome-API/internal/utils"
)

// Zone is one of the six fixed geographic zones of the city
type Zone string

const (
	ZoneWest    Zone = "West"
	ZoneEast    Zone = "East"
	ZoneNorth   Zone = "North"
	ZoneSouth   Zone = "South"
	ZoneCentral Zone = "Central"
	ZoneOther   Zone = "Other"
)

// AllZones lists the zones in one-hot encoding order
var AllZones = []Zone{ZoneWest, ZoneEast, ZoneNorth, ZoneSouth, ZoneCentral, ZoneOther}

const citySuffix = ", semarang"

// zoneTable is evaluated in order by the fuzzy fallback, so entries must not
// be reordered.
var zoneTable = []utils.FuzzyPair{
	// West
	{Pattern: "Semarang Barat", Value: string(ZoneWest)},
	{Pattern: "Kalibanteng", Value: string(ZoneWest)},
	{Pattern: "Kalibanteng Kulon", Value: string(ZoneWest)},
	{Pattern: "Kalibanteng kidul", Value: string(ZoneWest)},
	{Pattern: "Krapyak", Value: string(ZoneWest)},
	{Pattern: "Manyaran", Value: string(ZoneWest)},
	{Pattern: "Ngaliyan", Value: string(ZoneWest)},
	{Pattern: "Tugu", Value: string(ZoneWest)},
	{Pattern: "Tugurejo", Value: string(ZoneWest)},
	{Pattern: "Jerakah", Value: string(ZoneWest)},
	{Pattern: "Puspogiwang", Value: string(ZoneWest)},
	{Pattern: "Gajah Mungkur", Value: string(ZoneWest)},
	{Pattern: "Sampangan", Value: string(ZoneWest)},
	{Pattern: "Puspowarno", Value: string(ZoneWest)},
	{Pattern: "Puri Anjasmoro", Value: string(ZoneWest)},
	{Pattern: "Anjasmoro", Value: string(ZoneWest)},
	{Pattern: "Karangayu", Value: string(ZoneWest)},
	{Pattern: "Pusponjolo", Value: string(ZoneWest)},
	{Pattern: "Graha Padma", Value: string(ZoneWest)},
	{Pattern: "Kembang Arum", Value: string(ZoneWest)},
	{Pattern: "Tawangmas", Value: string(ZoneWest)},
	{Pattern: "Pamularsih", Value: string(ZoneWest)},
	{Pattern: "Mijen", Value: string(ZoneWest)},
	{Pattern: "Simongan", Value: string(ZoneWest)},
	{Pattern: "Bongsari", Value: string(ZoneWest)},
	{Pattern: "BSB City", Value: string(ZoneWest)},

	// East
	{Pattern: "Semarang Timur", Value: string(ZoneEast)},
	{Pattern: "Pedurungan", Value: string(ZoneEast)},
	{Pattern: "Tlogosari", Value: string(ZoneEast)},
	{Pattern: "Genuk", Value: string(ZoneEast)},
	{Pattern: "Gayamsari", Value: string(ZoneEast)},
	{Pattern: "Kedungmundu", Value: string(ZoneEast)},
	{Pattern: "Ketileng", Value: string(ZoneEast)},
	{Pattern: "Bangetayu", Value: string(ZoneEast)},
	{Pattern: "Bangetayu Wetan", Value: string(ZoneEast)},
	{Pattern: "Muktiharjo", Value: string(ZoneEast)},
	{Pattern: "Gemah", Value: string(ZoneEast)},
	{Pattern: "Plamongan", Value: string(ZoneEast)},
	{Pattern: "Meteseh", Value: string(ZoneEast)},
	{Pattern: "Mlatiharjo", Value: string(ZoneEast)},
	{Pattern: "Banyumanik", Value: string(ZoneEast)},
	{Pattern: "Tembalang", Value: string(ZoneEast)},
	{Pattern: "Bukit Sari", Value: string(ZoneEast)},
	{Pattern: "Sendangmulyo", Value: string(ZoneEast)},
	{Pattern: "Sambiroto", Value: string(ZoneEast)},
	{Pattern: "Srondol", Value: string(ZoneEast)},
	{Pattern: "Pudak Payung", Value: string(ZoneEast)},
	{Pattern: "Ngesrep", Value: string(ZoneEast)},
	{Pattern: "Jangli", Value: string(ZoneEast)},
	{Pattern: "Penggaron", Value: string(ZoneEast)},
	{Pattern: "Citragrand", Value: string(ZoneEast)},
	{Pattern: "Rejosari", Value: string(ZoneEast)},
	{Pattern: "Kalicari", Value: string(ZoneEast)},
	{Pattern: "Majapahit", Value: string(ZoneEast)},
	{Pattern: "Pedalangan", Value: string(ZoneEast)},
	{Pattern: "Kaligawe", Value: string(ZoneEast)},

	// North
	{Pattern: "Semarang Utara", Value: string(ZoneNorth)},
	{Pattern: "Tanah Mas", Value: string(ZoneNorth)},
	{Pattern: "Panggung", Value: string(ZoneNorth)},
	{Pattern: "Kuningan", Value: string(ZoneNorth)},
	{Pattern: "Plombokan", Value: string(ZoneNorth)},
	{Pattern: "Tanjung Mas", Value: string(ZoneNorth)},
	{Pattern: "Bandarharjo", Value: string(ZoneNorth)},
	{Pattern: "Kampung Kali", Value: string(ZoneNorth)},

	// South
	{Pattern: "Semarang Selatan", Value: string(ZoneSouth)},
	{Pattern: "Wonodri", Value: string(ZoneSouth)},
	{Pattern: "Pleburan", Value: string(ZoneSouth)},
	{Pattern: "Candisari", Value: string(ZoneSouth)},
	{Pattern: "Jatingaleh", Value: string(ZoneSouth)},
	{Pattern: "Candi Golf", Value: string(ZoneSouth)},
	{Pattern: "Jomblang", Value: string(ZoneSouth)},
	{Pattern: "Lamper", Value: string(ZoneSouth)},
	{Pattern: "Karang Anyar", Value: string(ZoneSouth)},
	{Pattern: "Karang Rejo", Value: string(ZoneSouth)},
	{Pattern: "Karang Tempel", Value: string(ZoneSouth)},
	{Pattern: "Karang kidul", Value: string(ZoneSouth)},
	{Pattern: "Siranda", Value: string(ZoneSouth)},
	{Pattern: "Sompok", Value: string(ZoneSouth)},
	{Pattern: "Mugosari", Value: string(ZoneSouth)},
	{Pattern: "Tlaga Bodas", Value: string(ZoneSouth)},
	{Pattern: "Gajahmada", Value: string(ZoneSouth)},
	{Pattern: "Sultan Agung", Value: string(ZoneSouth)},
	{Pattern: "Peterongan", Value: string(ZoneSouth)},
	{Pattern: "Dr Cipto Mangunkusomo", Value: string(ZoneSouth)},
	{Pattern: "Atmodirono", Value: string(ZoneSouth)},
	{Pattern: "Bulustalan", Value: string(ZoneSouth)},
	{Pattern: "Pandansari", Value: string(ZoneSouth)},
	{Pattern: "Gajahmungkur", Value: string(ZoneSouth)},
	{Pattern: "Gunung Pati", Value: string(ZoneSouth)},
	{Pattern: "Barusari", Value: string(ZoneSouth)},
	{Pattern: "Pati Wetan", Value: string(ZoneSouth)},

	// Central
	{Pattern: "Semarang Tengah", Value: string(ZoneCentral)},
	{Pattern: "Simpang Lima", Value: string(ZoneCentral)},
	{Pattern: "Pemuda", Value: string(ZoneCentral)},
	{Pattern: "Sekayu", Value: string(ZoneCentral)},
	{Pattern: "Gabahan", Value: string(ZoneCentral)},
	{Pattern: "Kranggan", Value: string(ZoneCentral)},
	{Pattern: "Jagalan", Value: string(ZoneCentral)},
	{Pattern: "Miroto", Value: string(ZoneCentral)},
	{Pattern: "Pindrikan", Value: string(ZoneCentral)},
	{Pattern: "Pekunden", Value: string(ZoneCentral)},
	{Pattern: "Purwosari", Value: string(ZoneCentral)},
	{Pattern: "Pendirikan", Value: string(ZoneCentral)},
	{Pattern: "Brumbungan", Value: string(ZoneCentral)},
	{Pattern: "Mataram", Value: string(ZoneCentral)},
	{Pattern: "Kartini", Value: string(ZoneCentral)},
	{Pattern: "Bugangan", Value: string(ZoneCentral)},
	{Pattern: "Citarum", Value: string(ZoneCentral)},
	{Pattern: "Indraprasta", Value: string(ZoneCentral)},
	{Pattern: "Sidodadi Timur", Value: string(ZoneCentral)},
	{Pattern: "Kawi", Value: string(ZoneCentral)},
	{Pattern: "Halmahera", Value: string(ZoneCentral)},
	{Pattern: "Kaliwungu", Value: string(ZoneCentral)},
	{Pattern: "Krakatau", Value: string(ZoneCentral)},
	{Pattern: "Nias", Value: string(ZoneCentral)},
	{Pattern: "Semeru", Value: string(ZoneCentral)},
	{Pattern: "Sri Rejeki", Value: string(ZoneCentral)},
	{Pattern: "Kenconowungu", Value: string(ZoneCentral)},
	{Pattern: "Dempel", Value: string(ZoneCentral)},
	{Pattern: "Papandayan", Value: string(ZoneCentral)},
	{Pattern: "pekunden", Value: string(ZoneCentral)},
	{Pattern: "Cabean", Value: string(ZoneCentral)},
	{Pattern: "Gedung Batu", Value: string(ZoneCentral)},
	{Pattern: "Greenwood", Value: string(ZoneCentral)},
	{Pattern: "Karang Turi", Value: string(ZoneCentral)},
	{Pattern: "Kauman", Value: string(ZoneCentral)},
	{Pattern: "Purwodinatan", Value: string(ZoneCentral)},
	{Pattern: "Sarirejo", Value: string(ZoneCentral)},
	{Pattern: "papandayan", Value: string(ZoneCentral)},

	// outside the city
	{Pattern: "Ungaran", Value: string(ZoneOther)},
	{Pattern: "Ungaran Barat", Value: string(ZoneOther)},
	{Pattern: "Ungaran Timur", Value: string(ZoneOther)},
	{Pattern: "Bawen", Value: string(ZoneOther)},
	{Pattern: "Bergas", Value: string(ZoneOther)},
	{Pattern: "Boja", Value: string(ZoneOther)},
	{Pattern: "Bandungan", Value: string(ZoneOther)},
	{Pattern: "Mranggen", Value: string(ZoneOther)},
	{Pattern: "Bringin", Value: string(ZoneOther)},
	{Pattern: "Pringapus", Value: string(ZoneOther)},
	{Pattern: "Sumowono", Value: string(ZoneOther)},
	{Pattern: "Suruh", Value: string(ZoneOther)},
	{Pattern: "Tengaran", Value: string(ZoneOther)},
	{Pattern: "Tuntang", Value: string(ZoneOther)},
	{Pattern: "Getasan", Value: string(ZoneOther)},
	{Pattern: "Pabelan", Value: string(ZoneOther)},
	{Pattern: "Banjardowo", Value: string(ZoneOther)},
	{Pattern: "Kedung Pane", Value: string(ZoneOther)},
	{Pattern: "Tengger", Value: string(ZoneOther)},
	{Pattern: "Mangunsari", Value: string(ZoneOther)},
}

// ZoneMapper resolves free-text neighborhood names to zones
type ZoneMapper struct {
	table []utils.FuzzyPair
	exact map[string]Zone
}

// NewZoneMapper creates a zone mapper over the built-in location table
func NewZoneMapper() *ZoneMapper {
	exact := make(map[string]Zone, len(zoneTable))
	for _, p := range zoneTable {
		exact[p.Pattern] = Zone(p.Value)
	}

	return &ZoneMapper{
		table: zoneTable,
		exact: exact,
	}
}

// Map resolves a location: exact match first, then a case-insensitive
// substring match in either direction where the first table entry wins.
// Unknown and empty locations map to ZoneOther.
func (m *ZoneMapper) Map(location string) Zone {
	loc := strings.TrimSpace(location)
	if strings.HasSuffix(strings.ToLower(loc), citySuffix) {
		loc = strings.TrimSpace(loc[:len(loc)-len(citySuffix)])
	}

	if loc == "" {
		return ZoneOther
	}

	if zone, ok := m.exact[loc]; ok {
		return zone
	}

	if v, ok := utils.FirstFuzzyMatch(loc, m.table); ok {
		return Zone(v)
	}

	return ZoneOther
}

// Listing returns the member locations of every zone in table order
func (m *ZoneMapper) Listing() map[Zone][]string {
	out := make(map[Zone][]string, len(AllZones))
	for _, p := range m.table {
		z := Zone(p.Value)
		out[z] = append(out[z], p.Pattern)
	}
	return out
}

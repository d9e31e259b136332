package availability

import (
	"errors"
	"strings"
)

// DefaultLocationID is Herald Square.
const DefaultLocationID = "d88353cb-4ec3-4477-b9dc-177692591b30"

var builtinLocations = []Location{
	{ID: "4388c520-a4de-4d49-b812-e2cb4badf667", Name: "FiDi", City: "New York City"},
	{ID: "31f9eb4b-7fa7-4073-9c36-132b626c8b7e", Name: "Flatiron", City: "New York City"},
	{ID: "c71d765c-c7fd-4be7-aaba-2f3b21a91ba0", Name: "Grand Central", City: "New York City"},
	{ID: DefaultLocationID, Name: "Herald Square", City: "New York City"},
	{ID: "e17214e1-28cb-4170-ab89-ea3532501251", Name: "Long Island City", City: "New York City"},
	{ID: "3e7541f4-535a-42ad-b5d2-32bc46ce859e", Name: "Upper East Side", City: "New York City"},
}

// LocationCatalog is the read-only list of venues.
type LocationCatalog struct {
	locations []Location
	byID      map[string]Location
	defaultID string
}

// NewLocationCatalog builds a catalogue. An empty list selects the built-in
// venues; an empty defaultID selects the built-in default when present, else
// the first venue.
func NewLocationCatalog(locations []Location, defaultID string) (*LocationCatalog, error) {
	if len(locations) == 0 {
		locations = builtinLocations
	}
	catalog := &LocationCatalog{
		locations: make([]Location, 0, len(locations)),
		byID:      make(map[string]Location, len(locations)),
	}
	for _, loc := range locations {
		id := strings.TrimSpace(loc.ID)
		if id == "" {
			return nil, errors.New("location id cannot be empty")
		}
		if _, dup := catalog.byID[id]; dup {
			return nil, errors.New("duplicate location id " + id)
		}
		loc.ID = id
		catalog.byID[id] = loc
		catalog.locations = append(catalog.locations, loc)
	}

	defaultID = strings.TrimSpace(defaultID)
	switch {
	case defaultID != "":
		if _, ok := catalog.byID[defaultID]; !ok {
			return nil, errors.New("default location " + defaultID + " is not in the catalogue")
		}
	case catalog.has(DefaultLocationID):
		defaultID = DefaultLocationID
	default:
		defaultID = catalog.locations[0].ID
	}
	catalog.defaultID = defaultID
	return catalog, nil
}

// Find looks a venue up by id.
func (c *LocationCatalog) Find(id string) (Location, bool) {
	loc, ok := c.byID[strings.TrimSpace(id)]
	return loc, ok
}

// All returns the venues in catalogue order.
func (c *LocationCatalog) All() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Default returns the venue preselected for new queries.
func (c *LocationCatalog) Default() Location {
	return c.byID[c.defaultID]
}

func (c *LocationCatalog) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

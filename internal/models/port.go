package models

import (
	"fmt"
	"strings"
)

// Port identifies one of the coastal stations tide tables are published for.
// The set is closed; ports are never created at runtime.
type Port int

const (
	Auckland Port = iota
	Bluff
	Dunedin
	Gisborne
	Lyttelton
	MarsdenPoint
	Napier
	Nelson
	Onehunga
	Picton
	PortChalmers
	Taranaki
	Tauranga
	Timaru
	Wellington
	Westport
)

// Coordinates is a position as printed in the tide tables (e.g. "36.51'S").
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type portInfo struct {
	id     string // identifier, e.g. "Marsden_Point"
	name   string // display name, e.g. "Marsden Point"
	coords *Coordinates
}

var portTable = [...]portInfo{
	Auckland:     {id: "Auckland", name: "Auckland", coords: &Coordinates{Latitude: "36.51'S", Longitude: "174.46'E"}},
	Bluff:        {id: "Bluff", name: "Bluff"},
	Dunedin:      {id: "Dunedin", name: "Dunedin"},
	Gisborne:     {id: "Gisborne", name: "Gisborne"},
	Lyttelton:    {id: "Lyttelton", name: "Lyttelton"},
	MarsdenPoint: {id: "Marsden_Point", name: "Marsden Point"},
	Napier:       {id: "Napier", name: "Napier"},
	Nelson:       {id: "Nelson", name: "Nelson"},
	Onehunga:     {id: "Onehunga", name: "Onehunga"},
	Picton:       {id: "Picton", name: "Picton"},
	PortChalmers: {id: "Port_Chalmers", name: "Port Chalmers"},
	Taranaki:     {id: "Taranaki", name: "Taranaki"},
	Tauranga:     {id: "Tauranga", name: "Tauranga"},
	Timaru:       {id: "Timaru", name: "Timaru"},
	Wellington:   {id: "Wellington", name: "Wellington"},
	Westport:     {id: "Westport", name: "Westport"},
}

// AllPorts returns every known port in declaration order.
func AllPorts() []Port {
	ports := make([]Port, len(portTable))
	for i := range portTable {
		ports[i] = Port(i)
	}
	return ports
}

// Valid reports whether p is one of the known ports.
func (p Port) Valid() bool {
	return p >= 0 && int(p) < len(portTable)
}

// ID returns the port identifier, e.g. "Marsden_Point".
func (p Port) ID() string {
	if !p.Valid() {
		return fmt.Sprintf("Port(%d)", int(p))
	}
	return portTable[p].id
}

// Name returns the display name, e.g. "Marsden Point".
func (p Port) Name() string {
	if !p.Valid() {
		return p.ID()
	}
	return portTable[p].name
}

func (p Port) String() string {
	return p.Name()
}

// Key returns the lowercase storage key used to locate the port's tables.
func (p Port) Key() string {
	return strings.ToLower(p.ID())
}

// Coordinates returns the port's position, if the tables publish one.
func (p Port) Coordinates() (Coordinates, bool) {
	if !p.Valid() || portTable[p].coords == nil {
		return Coordinates{}, false
	}
	return *portTable[p].coords, true
}

// ParsePort resolves an identifier, display name or storage key to a Port.
// Matching is case-insensitive.
func ParsePort(s string) (Port, error) {
	s = strings.TrimSpace(s)
	for i, info := range portTable {
		if strings.EqualFold(s, info.id) || strings.EqualFold(s, info.name) {
			return Port(i), nil
		}
	}
	return 0, fmt.Errorf("unknown port %q", s)
}

// MarshalText encodes the port as its identifier.
func (p Port) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid port %d", int(p))
	}
	return []byte(p.ID()), nil
}

// UnmarshalText accepts anything ParsePort does.
func (p *Port) UnmarshalText(text []byte) error {
	parsed, err := ParsePort(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

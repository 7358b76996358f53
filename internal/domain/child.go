// Package domain holds the pure data types of the habit game: child and
// parent profiles, the four habit log collections, reward catalog items and
// won rewards. Nothing in this package touches storage or the network.
package domain

import "time"

// Gender of a child profile.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender validates a gender string.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", invalid("gender", s)
}

// Tickets is a child's gacha ticket balance. Neither field is ever negative.
type Tickets struct {
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

// Balance returns the balance for one ticket tier.
func (t Tickets) Balance(tier TicketTier) int {
	if tier == TicketGold {
		return t.Gold
	}
	return t.Silver
}

// Profile identifies a child and carries its game progress.
type Profile struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	Gender       Gender  `json:"gender"`
	Level        int     `json:"level"`
	XP           int     `json:"xp"`
	Tickets      Tickets `json:"tickets"`
}

// ChildData is the full document persisted per child. Version increases by
// one on every successful write and guards compare-and-swap updates.
type ChildData struct {
	Profile        Profile          `json:"profile"`
	WaterLogs      []WaterLogEntry  `json:"water_logs"`
	PoopLogs       []PoopLogEntry   `json:"poop_logs"`
	VegetableLogs  []SimpleLogEntry `json:"vegetable_logs"`
	ProbioticsLogs []SimpleLogEntry `json:"probiotics_logs"`
	WonRewards     []Reward         `json:"won_rewards"`
	Version        int64            `json:"version"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewChild returns the initial document for a freshly signed-up child:
// level 1, no XP, no tickets, empty logs.
func NewChild(id, username, passwordHash, name string, age int, gender Gender) ChildData {
	return ChildData{
		Profile: Profile{
			ID:           id,
			Username:     username,
			PasswordHash: passwordHash,
			Name:         name,
			Age:          age,
			Gender:       gender,
			Level:        1,
		},
		WaterLogs:      []WaterLogEntry{},
		PoopLogs:       []PoopLogEntry{},
		VegetableLogs:  []SimpleLogEntry{},
		ProbioticsLogs: []SimpleLogEntry{},
		WonRewards:     []Reward{},
	}
}

// Clone returns a deep copy so callers can derive a new snapshot without
// aliasing the slices of the original.
func (c ChildData) Clone() ChildData {
	out := c
	out.WaterLogs = append([]WaterLogEntry{}, c.WaterLogs...)
	out.PoopLogs = append([]PoopLogEntry{}, c.PoopLogs...)
	out.VegetableLogs = append([]SimpleLogEntry{}, c.VegetableLogs...)
	out.ProbioticsLogs = append([]SimpleLogEntry{}, c.ProbioticsLogs...)
	out.WonRewards = append([]Reward{}, c.WonRewards...)
	return out
}

// Parent is a guardian account. LinkedChildIDs lists the children the parent
// oversees; deleting a child removes its id from every parent.
type Parent struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	LinkedChildIDs []string  `json:"linked_child_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsLinked reports whether the parent oversees childID.
func (p Parent) IsLinked(childID string) bool {
	for _, id := range p.LinkedChildIDs {
		if id == childID {
			return true
		}
	}
	return false
}

// PrincipalKind distinguishes the two account types.
type PrincipalKind string

const (
	PrincipalChild  PrincipalKind = "CHILD"
	PrincipalParent PrincipalKind = "PARENT"
)

// Principal is the result of a successful login.
type Principal struct {
	Kind PrincipalKind `json:"kind"`
	ID   string        `json:"id"`
	Name string        `json:"name"`
}

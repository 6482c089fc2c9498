package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID                int64     `json:"id"`
	ReservationNumber string    `json:"reservation_number"`
	CustomerName      string    `json:"customer_name"`
	CustomerPhone     string    `json:"customer_phone"`
	CustomerEmail     string    `json:"customer_email"`
	PartySize         int       `json:"party_size"`
	ReservationDate   string    `json:"reservation_date"`
	ReservationTime   string    `json:"reservation_time"`
	SpecialNotes      string    `json:"special_notes"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

type ReservationFilter struct {
	Phone string
	Date  string
}

// PartySize accepts either a JSON number or a string. The string "13+"
// marks a large party that has to book by phone.
type PartySize struct {
	N     int
	Large bool
}

func (p *PartySize) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		p.N = n
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("party_size must be a number or \"13+\"")
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "+") {
		p.Large = true
		s = strings.TrimSuffix(s, "+")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("party_size must be a number or \"13+\"")
	}
	p.N = n
	return nil
}

func (p PartySize) MarshalJSON() ([]byte, error) {
	if p.Large {
		return json.Marshal(strconv.Itoa(p.N) + "+")
	}
	return json.Marshal(p.N)
}

package model

import "time"

// Bill is a maintenance charge owned by the society backend. This service
// only ever transitions Paid from false to true, and only after a
// successful verification; every other field is read-only here.
type Bill struct {
	BillID    string    `json:"maintenanceId"`
	RoomID    string    `json:"roomId"`
	Month     string    `json:"month"`
	Year      string    `json:"year"`
	Amount    int64     `json:"amount"` // major currency units (rupees)
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResidentProfile is the backend's view of the logged-in resident,
// used for checkout prefill and session identity.
type ResidentProfile struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"number"`
	IsAdmin bool   `json:"isAdmin"`
}

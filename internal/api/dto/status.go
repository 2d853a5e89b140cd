package dto

import "time"

type PackageView struct {
	ID           string     `json:"id"`
	TrackingCode string     `json:"tracking_code"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	ClientName   string     `json:"client_name,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

type ListPackagesResponse struct {
	Packages []PackageView `json:"packages"`
	Next     string        `json:"next,omitempty"`
}

type RouteView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Legs          int    `json:"legs"`
	Steps         int    `json:"steps"`
	NavigationURL string `json:"navigation_url,omitempty"`
}

type NoteView struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity,omitempty"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`
}

type ListNotesResponse struct {
	Notes []NoteView `json:"notes"`
}

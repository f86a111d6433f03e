package model

import "time"

type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Schedule is a weekly availability window for a sport space.
// Day follows time.Weekday numbering: 0 is Sunday.
type Schedule struct {
	Day       int    `json:"day"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
}

type SportSpace struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	ImagePath   string     `json:"image_path,omitempty"`
	IsActive    bool       `json:"is_active"`
	Sports      []Sport    `json:"sports"`
	Schedules   []Schedule `json:"schedules"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

package model

import "time"

type Booking struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creator_id"`
	SpaceID      string    `json:"space_id"`
	Date         string    `json:"date"`
	TimeStart    string    `json:"time_start"`
	TimeEnd      string    `json:"time_end"`
	PeopleNumber int       `json:"people_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

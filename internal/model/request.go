package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// Legacy clients still send "rol".
	LegacyRol string `json:"rol,omitempty"`
}

func (r CreateUserRequest) RoleValue() string {
	if r.Role != "" {
		return r.Role
	}
	return r.LegacyRol
}

type UpdateUserRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
	LegacyRol *string `json:"rol,omitempty"`
}

func (r UpdateUserRequest) RoleValue() *string {
	if r.Role != nil {
		return r.Role
	}
	return r.LegacyRol
}

type CreateSportRequest struct {
	Name string `json:"name"`
}

// CreateSpaceRequest is the JSON half of the multipart create-space payload;
// the other part carries the image file.
type CreateSpaceRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Capacity    int      `json:"capacity"`
	IsActive    bool     `json:"isActive"`
	SportIDs    []string `json:"sportIds"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type ReplaceSchedulesRequest struct {
	Schedules []Schedule `json:"schedules"`
}

type CreateBookingRequest struct {
	SpaceID      string `json:"space_id"`
	Date         string `json:"date"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end"`
	PeopleNumber int    `json:"people_number"`
}

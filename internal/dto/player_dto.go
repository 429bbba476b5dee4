package dto

// AccountForm carries the login fields shared by players and scouts.
type AccountForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	FullName string `form:"full_name"`
	Country  string `form:"country"`
	Phone    string `form:"phone"`
	Status   string `form:"status"`
}

type PlayerForm struct {
	Username      string  `form:"username"`
	Email         string  `form:"email"`
	Password      string  `form:"password"`
	FullName      string  `form:"full_name"`
	Country       string  `form:"country"`
	Phone         string  `form:"phone"`
	Status        string  `form:"status"`
	Position      string  `form:"position"`
	DateOfBirth   string  `form:"date_of_birth"`
	HeightCm      int     `form:"height_cm"`
	WeightKg      int     `form:"weight_kg"`
	PreferredFoot string  `form:"preferred_foot"`
	CurrentClubID string  `form:"current_club_id"`
	MarketValue   float64 `form:"market_value"`
	Bio           string  `form:"bio"`
}

func (f *PlayerForm) Account() AccountForm {
	return AccountForm{
		Username: f.Username, Email: f.Email, Password: f.Password,
		FullName: f.FullName, Country: f.Country, Phone: f.Phone, Status: f.Status,
	}
}

type PlayerFilter struct {
	Search   string `query:"search"`
	Country  string `query:"country"`
	Position string `query:"position"`
	MinAge   int    `query:"min_age"`
	MaxAge   int    `query:"max_age"`
	Sort     string `query:"sort"`
	Dir      string `query:"dir"`
	Page     int    `query:"page"`
}

type NoteForm struct {
	Body string `form:"body"`
}

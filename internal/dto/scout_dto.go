package dto

type ScoutForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	FullName        string `form:"full_name"`
	Country         string `form:"country"`
	Phone           string `form:"phone"`
	Status          string `form:"status"`
	Region          string `form:"region"`
	Specialization  string `form:"specialization"`
	ExperienceYears int    `form:"experience_years"`
	Verified        bool   `form:"verified"`
}

func (f *ScoutForm) Account() AccountForm {
	return AccountForm{
		Username: f.Username, Email: f.Email, Password: f.Password,
		FullName: f.FullName, Country: f.Country, Phone: f.Phone, Status: f.Status,
	}
}

type ScoutFilter struct {
	Search string `query:"search"`
	Region string `query:"region"`
	Page   int    `query:"page"`
}

type ClubForm struct {
	Name         string `form:"name"`
	Country      string `form:"country"`
	League       string `form:"league"`
	City         string `form:"city"`
	Stadium      string `form:"stadium"`
	FoundedYear  int    `form:"founded_year"`
	Website      string `form:"website"`
	ContactEmail string `form:"contact_email"`
}

type ClubFilter struct {
	Search  string `query:"search"`
	Country string `query:"country"`
	Page    int    `query:"page"`
}

package dto

type AdminForm struct {
	Username    string   `form:"username"`
	Email       string   `form:"email"`
	Password    string   `form:"password"`
	FullName    string   `form:"full_name"`
	Role        string   `form:"role"`
	Active      bool     `form:"active"`
	Permissions []string `form:"permissions"` // "resource:action"
}

type LogFilter struct {
	Admin    string `query:"admin"`
	Action   string `query:"action"`
	Resource string `query:"resource"`
	Page     int    `query:"page"`
}

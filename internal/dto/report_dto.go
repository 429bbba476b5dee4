package dto

type ReportForm struct {
	PlayerID       string `form:"player_id"`
	ScoutID        string `form:"scout_id"`
	Title          string `form:"title"`
	Summary        string `form:"summary"`
	Strengths      string `form:"strengths"`
	Weaknesses     string `form:"weaknesses"`
	Technical      int    `form:"technical"`
	Physical       int    `form:"physical"`
	Mental         int    `form:"mental"`
	Tactical       int    `form:"tactical"`
	Potential      int    `form:"potential"`
	Recommendation string `form:"recommendation"`
	Status         string `form:"status"`
}

type ReportFilter struct {
	Status    string  `query:"status"`
	PlayerID  string  `query:"player_id"`
	ScoutID   string  `query:"scout_id"`
	MinRating float64 `query:"min_rating"`
	Page      int     `query:"page"`
}

type ReportActionRequest struct {
	Action string `form:"action"`
	Notes  string `form:"notes"`
}

type TransferForm struct {
	PlayerID string  `form:"player_id"`
	ClubID   string  `form:"club_id"`
	Type     string  `form:"type"`
	Status   string  `form:"status"`
	Fee      float64 `form:"fee"`
	Deadline string  `form:"deadline"`
	Notes    string  `form:"notes"`
}

type TransferFilter struct {
	Status string `query:"status"`
	Type   string `query:"type"`
	ClubID string `query:"club_id"`
	Page   int    `query:"page"`
}

package models

type Team struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	FlagCode string `json:"flagCode" db:"flag_code"`
	GroupID  string `json:"groupId" db:"group_id"`
	Points   int    `json:"points" db:"points"`
}

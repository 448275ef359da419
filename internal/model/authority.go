package model

// Authority 权限（ROLE_ADMIN、ROLE_USER）
type Authority struct {
	Name string `json:"name" gorm:"primaryKey;type:varchar(50)" validate:"required,max=50"`
}

func (Authority) TableName() string { return "authority" }

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

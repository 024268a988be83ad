package po

// User 只读映射 users 表中本服务关心的列，表由身份服务维护。
type User struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Phone        string `gorm:"column:phone;size:11"`
	Name         string `gorm:"column:name;size:255"`
	Role         string `gorm:"column:role;size:16;default:user"`
	IsActive     bool   `gorm:"column:is_active;default:true"`
	ProfileImage string `gorm:"column:profile_image;size:255"`
}

func (User) TableName() string {
	return "users"
}

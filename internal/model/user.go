package model

// User 员工表 — 对应 users
// 登录、角色等账号体系归属外部看板，这里只保留考勤与下发所需字段
type User struct {
	UserID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	EmployeeNo string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"employee_no"`
	Name       string  `gorm:"type:varchar(100);not null"                     json:"name"`
	CardNo     *string `gorm:"type:varchar(50)"                               json:"card_no,omitempty"`
	PhotoPath  *string `gorm:"type:varchar(255)"                              json:"photo_path,omitempty"` // 人脸照片，空表示未录入
	Active     bool    `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// HasPhoto 是否已录入人脸照片
func (u *User) HasPhoto() bool {
	return u.PhotoPath != nil && *u.PhotoPath != ""
}

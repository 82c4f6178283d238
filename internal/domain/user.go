package domain

// User 平台用户；用户名与邮箱各自唯一
type User struct {
	Model
	AuthStrategy   string   `gorm:"size:10;not null;default:local" json:"authStrategy"`
	Firstname      string   `gorm:"size:50" json:"firstname"`
	Lastname       string   `gorm:"size:50" json:"lastname"`
	Username       string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email          string   `gorm:"uniqueIndex;size:50;not null" json:"email"`
	Avatar         string   `gorm:"size:255" json:"avatar"`
	PhoneNumber    string   `gorm:"size:13" json:"phoneNumber"`
	WhatsappNumber string   `gorm:"size:13" json:"whatsappNumber"`
	City           string   `gorm:"size:100" json:"city"`
	Country        string   `gorm:"size:100" json:"country"`
	Address        string   `gorm:"size:255" json:"address"`
	Password       string   `gorm:"size:255" json:"-"`
	Verified       bool     `gorm:"not null;default:false" json:"verified"`
	Roles          []Role   `gorm:"many2many:user_roles;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"roles,omitempty"`
	Reviews        []Review `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"reviews,omitempty"`
	Doc            *UserDoc `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"doc,omitempty"`
}

func (User) TableName() string { return "users" }

type Role struct {
	Model
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:128;not null" json:"slug"`
}

func (Role) TableName() string { return "roles" }

// UserDoc 用户实名材料（只存文件名），每个用户最多一份
type UserDoc struct {
	Model
	UserID        string `gorm:"uniqueIndex;size:20;not null" json:"userId"`
	IDCard1       string `gorm:"column:id_card1;uniqueIndex;size:128;not null" json:"idCard1"`
	IDCard2       string `gorm:"column:id_card2;uniqueIndex;size:128;not null" json:"idCard2"`
	PassportPhoto string `gorm:"uniqueIndex;size:128;not null" json:"passportPhoto"`
}

func (UserDoc) TableName() string { return "user_docs" }

type Review struct {
	Model
	UserID  *string `gorm:"size:20;index" json:"userId"`
	Comment string  `gorm:"type:text;not null" json:"comment"`
	Rating  int     `gorm:"not null" json:"rating"`
}

func (Review) TableName() string { return "reviews" }

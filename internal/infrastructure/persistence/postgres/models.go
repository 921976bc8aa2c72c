package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           string              `gorm:"type:uuid;primaryKey"`
	Email        string              `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Profile      *DoctorProfileModel `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt    time.Time           `gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// DoctorProfileModel é o model GORM para o perfil profissional (1:1 com users)
type DoctorProfileModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"type:varchar(255);not null"`
	Specialty *string   `gorm:"type:varchar(255)"`
	CRM       *string   `gorm:"column:crm;type:varchar(50)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DoctorProfileModel) TableName() string {
	return "doctor_profiles"
}

// DocumentModel é o model GORM para documentos gerados
type DocumentModel struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	UserID      string         `gorm:"type:uuid;not null;index:idx_documents_user_created,priority:1"`
	Type        string         `gorm:"type:varchar(20);not null"`
	Subtype     string         `gorm:"type:varchar(120);not null"`
	PatientName string         `gorm:"type:varchar(255);not null"`
	PatientInfo datatypes.JSON `gorm:"not null"`
	Content     *string        `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(20);not null;default:completed"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index:idx_documents_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (DocumentModel) TableName() string {
	return "documents"
}

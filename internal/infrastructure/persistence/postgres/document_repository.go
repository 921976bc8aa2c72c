package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	"github.com/rafabene/medfy-backend/internal/domain/repositories"
)

// DocumentRepository implementa repositories.DocumentRepository
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository cria um novo DocumentRepository
func NewDocumentRepository(db *gorm.DB) repositories.DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	model, err := r.toModel(doc)
	if err != nil {
		return err
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return err
	}

	doc.CreatedAt = model.CreatedAt
	doc.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, userID string) ([]*entities.Document, error) {
	var models []*DocumentModel

	db := dbFromContext(ctx, r.db)
	if err := r.ownedBy(db, userID).Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

// SearchByOwnerAndName busca por substring do nome do paciente, sem diferenciar maiúsculas.
// Curingas do LIKE (% e _) digitados pelo usuário são tratados como texto.
func (r *DocumentRepository) SearchByOwnerAndName(ctx context.Context, userID, name string) ([]*entities.Document, error) {
	var models []*DocumentModel

	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"

	db := dbFromContext(ctx, r.db)
	query := r.ownedBy(db, userID).Where(`LOWER(patient_name) LIKE ? ESCAPE '\'`, pattern)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

// FindByOwnerAndID retorna (nil, nil) se o documento não existe ou é de outro usuário
func (r *DocumentRepository) FindByOwnerAndID(ctx context.Context, userID, id string) (*entities.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var model DocumentModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *DocumentRepository) CountByType(ctx context.Context, userID string) (map[entities.DocumentType]int, error) {
	var rows []struct {
		Type  string
		Count int
	}

	db := dbFromContext(ctx, r.db)
	err := db.Model(&DocumentModel{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.DocumentType]int, len(entities.DocumentTypes))
	for _, t := range entities.DocumentTypes {
		counts[t] = 0
	}
	for _, row := range rows {
		counts[entities.DocumentType(row.Type)] = row.Count
	}

	return counts, nil
}

// ownedBy restringe ao dono, do mais recente para o mais antigo
func (r *DocumentRepository) ownedBy(db *gorm.DB, userID string) *gorm.DB {
	return db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Conversores
func (r *DocumentRepository) toModel(doc *entities.Document) (*DocumentModel, error) {
	info, err := entities.EncodePatientInfo(doc.PatientInfo)
	if err != nil {
		return nil, err
	}

	return &DocumentModel{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Type:        string(doc.Type),
		Subtype:     doc.Subtype,
		PatientName: doc.PatientName,
		PatientInfo: datatypes.JSON(info),
		Content:     doc.Content,
		Status:      string(doc.Status),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (r *DocumentRepository) toEntity(model *DocumentModel) (*entities.Document, error) {
	docType := entities.DocumentType(model.Type)

	info, err := entities.DecodePatientInfo(docType, model.PatientInfo)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", model.ID, err)
	}

	return &entities.Document{
		ID:          model.ID,
		UserID:      model.UserID,
		Type:        docType,
		Subtype:     model.Subtype,
		PatientName: model.PatientName,
		PatientInfo: info,
		Content:     model.Content,
		Status:      entities.DocumentStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}

func (r *DocumentRepository) toEntities(models []*DocumentModel) ([]*entities.Document, error) {
	docs := make([]*entities.Document, 0, len(models))

	for _, model := range models {
		doc, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

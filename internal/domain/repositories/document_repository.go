package repositories

import (
	"context"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// DocumentRepository define a interface para persistência de documentos.
// Todas as listagens são filtradas pelo dono e ordenadas da mais recente para a mais antiga.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entities.Document) error
	ListByOwner(ctx context.Context, userID string) ([]*entities.Document, error)
	SearchByOwnerAndName(ctx context.Context, userID, name string) ([]*entities.Document, error)
	FindByOwnerAndID(ctx context.Context, userID, id string) (*entities.Document, error)
	CountByType(ctx context.Context, userID string) (map[entities.DocumentType]int, error)
}

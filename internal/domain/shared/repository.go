package shared

import "context"

// KeyedStore is a namespaced key-value store of entities.
//
// Get reports absence through found=false rather than an error. GetAll only
// returns active entities. Insert assigns a fresh id when the entity has none
// and fails with ErrEntityAlreadyExists when the id is taken. Delete is a soft
// delete and fails with ErrEntityNotFound when the entity is absent or already
// inactive. Write failures surface as ErrDbOperationFailure.
type KeyedStore[T Entity] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	GetAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

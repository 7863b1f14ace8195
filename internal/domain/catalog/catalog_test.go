package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

type memCategoryRepo struct {
	byID map[id.ID]*Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{byID: make(map[id.ID]*Category)}
}

func (m *memCategoryRepo) Create(ctx context.Context, c *Category) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCategoryRepo) Update(ctx context.Context, c *Category) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	delete(m.byID, categoryID)
	return nil
}

func (m *memCategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	c, ok := m.byID[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID)
	}
	return c, nil
}

func (m *memCategoryRepo) List(ctx context.Context) ([]*Category, error) {
	out := make([]*Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCategoryCreate_AssignsID(t *testing.T) {
	repo := newMemCategoryRepo()
	svc := NewCategoryService(repo)

	c := &Category{Name: "Shirts"}
	require.NoError(t, svc.Create(context.Background(), c))

	assert.False(t, id.IsNil(c.ID))
	assert.Len(t, repo.byID, 1)
}

func TestCategoryCreate_RequiresName(t *testing.T) {
	svc := NewCategoryService(newMemCategoryRepo())

	err := svc.Create(context.Background(), &Category{})
	assertValidation(t, err)
}

func TestCategoryDelete_MissingIsNotFound(t *testing.T) {
	svc := NewCategoryService(newMemCategoryRepo())

	err := svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCustomerValidate(t *testing.T) {
	c := &Customer{Phone: "0712345678"}
	err := c.Validate()
	assertValidation(t, err)

	c.Name = "Amina"
	require.NoError(t, c.Validate())
}

func TestTailorOrderValidate_DefaultsStatus(t *testing.T) {
	o := &TailorOrder{
		CustomerID:  id.New(),
		Description: "Three-piece suit",
		Price:       types.MustMoney("4500"),
	}
	require.NoError(t, o.Validate())
	assert.Equal(t, TailorOrderPending, o.Status)
}

func TestTailorOrderValidate_RejectsUnknownStatus(t *testing.T) {
	o := &TailorOrder{
		CustomerID:  id.New(),
		Description: "Three-piece suit",
		Status:      "cancelled",
	}
	err := o.Validate()
	assertValidation(t, err)
}

func TestTailorOrderValidate_RejectsNegativePrice(t *testing.T) {
	o := &TailorOrder{
		CustomerID:  id.New(),
		Description: "Hem trousers",
		Price:       types.MustMoney("-10"),
	}
	err := o.Validate()
	assertValidation(t, err)
}

func TestTailorOrderValidate_RequiresCustomer(t *testing.T) {
	o := &TailorOrder{Description: "Hem trousers"}
	err := o.Validate()
	assertValidation(t, err)
}

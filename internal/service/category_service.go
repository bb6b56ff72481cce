package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// CategoryInput carries category fields. Nil or empty values are left unchanged
// on update and defaulted on create.
type CategoryInput struct {
	Name      *string
	Color     *string
	TextColor *string
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	store *repository.Store
}

func NewCategoryService(store *repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.Categories.List(ctx)
	if err != nil {
		return nil, storeError("Failed to fetch categories", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Category not found")
		}
		return nil, storeError("Failed to fetch category", err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if !present(input.Name) {
		return nil, validationError("Category name is required")
	}

	category := model.Category{
		Name:      strings.TrimSpace(*input.Name),
		Color:     model.DefaultCategoryColor,
		TextColor: model.DefaultCategoryTextColor,
	}
	if present(input.Color) {
		category.Color = *input.Color
	}
	if present(input.TextColor) {
		category.TextColor = *input.TextColor
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		taken, err := tx.Categories.NameTaken(ctx, category.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflict("Category with this name already exists")
		}
		return tx.Categories.Create(ctx, &category)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Category with this name already exists")
		}
		return nil, storeError("Failed to create category", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	var category *model.Category
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		existing, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Category not found")
			}
			return err
		}

		if present(input.Name) {
			name := strings.TrimSpace(*input.Name)
			if name != existing.Name {
				taken, err := tx.Categories.NameTaken(ctx, name, id)
				if err != nil {
					return err
				}
				if taken {
					return conflict("Category with this name already exists")
				}
				existing.Name = name
			}
		}
		if present(input.Color) {
			existing.Color = *input.Color
		}
		if present(input.TextColor) {
			existing.TextColor = *input.TextColor
		}
		if err := tx.Categories.Save(ctx, existing); err != nil {
			return err
		}
		category = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Category with this name already exists")
		}
		return nil, storeError("Failed to update category", err)
	}
	return category, nil
}

// Delete removes an unused category. Categories referenced by any task are
// refused with a CategoryInUseError.
func (s *CategoryService) Delete(ctx context.Context, id uint) (*model.Category, error) {
	var deleted *model.Category
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		count, err := tx.Categories.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &CategoryInUseError{TaskCount: count}
		}

		category, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Category not found")
			}
			return err
		}
		ok, err := tx.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("Category not found")
		}
		deleted = category
		return nil
	})
	if err != nil {
		return nil, storeError("Failed to delete category", err)
	}
	return deleted, nil
}

// Tasks lists the Task Views of every task in the category.
func (s *CategoryService) Tasks(ctx context.Context, id uint) ([]model.TaskView, error) {
	views, err := s.store.Views.List(ctx, repository.TaskQuery{CategoryID: &id})
	if err != nil {
		return nil, storeError("Failed to fetch category tasks", err)
	}
	return views, nil
}

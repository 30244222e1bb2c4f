// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"medshop/internal/dberr"
	"medshop/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sqlx.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

type categoryRow struct {
	ID          int     `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
}

func (r categoryRow) model() models.Category {
	return models.Category{ID: r.ID, Name: r.Name, Description: r.Description}
}

func selectCategories() sq.SelectBuilder {
	return psql.Select("id", "name", "description").From("categories").OrderBy("id")
}

// List returns all categories.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var rows []categoryRow
	if err := selectAll(ctx, s.db, &rows, selectCategories()); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return lo.Map(rows, func(r categoryRow, _ int) models.Category { return r.model() }), nil
}

// FindByID retrieves a category by ID. A miss returns a dberr.NotFoundError.
func (s *CategoryStore) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var rows []categoryRow
	if err := selectAll(ctx, s.db, &rows, selectCategories().Where(sq.Eq{"id": id})); err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, dberr.NotFound("Category", id)
	}
	c := rows[0].model()
	return &c, nil
}
